// Package notification defines the notification request value object shared
// by the HTTP API, the queue payload formats and the dispatcher.
//
// A Request lists the channels to deliver through plus the recipient fields
// each channel needs. Validate enforces the per-channel invariants: email
// requires recipient_email, sms and whatsapp require recipient_phone, and
// the message body must be non-empty. Channels are semantically a set;
// ChannelSet collapses duplicates while preserving order.
package notification
