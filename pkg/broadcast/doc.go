// Package broadcast provides a generic publish/subscribe hub used for live
// in-app notification delivery.
//
// The in-memory implementation favors availability of the publisher over
// completeness for consumers: a subscriber that cannot keep up has messages
// dropped and is eventually unsubscribed, so one stalled websocket never
// backs up the dispatch path. Delivered in-app notifications are persisted
// in the inbox regardless, so dropped live messages are recoverable.
package broadcast
