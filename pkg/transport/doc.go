// Package transport contains the provider adapters that move a notification
// over the wire: Postmark for email, Twilio for SMS and WhatsApp, Firebase
// Cloud Messaging for push, and the inbox store plus live broadcast for in-app
// delivery.
//
// Adapters are deliberately thin. They know how to talk to one provider and
// how to classify its failures as transient or permanent; channel routing,
// validation, and retries live in the dispatch and retry packages. Provider
// clients are injected behind small interfaces so tests can run without
// network access.
//
// A transient failure (timeout, connection reset, provider 5xx) is returned
// as *TransientError so callers can decide to retry. Everything else
// (rejected recipient, authentication failure) is permanent and surfaces
// as a plain error.
package transport
