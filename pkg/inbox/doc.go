// Package inbox persists in-app notifications so users can read them later.
//
// The in-app delivery channel writes a Notification here for every dispatched
// message, and the HTTP API reads them back with unread counts, pagination,
// and mark-as-read support. Two Storage implementations are provided:
// MemoryStorage for tests and local development, and MongoStorage for
// production.
//
// Usage:
//
//	store, err := inbox.NewMongoStorage(ctx, db)
//	if err != nil {
//		return err
//	}
//
//	err = store.Create(ctx, inbox.Notification{
//		ID:      uuid.NewString(),
//		UserID:  "user-123",
//		Message: "Your order has shipped",
//	})
//
//	unread, err := store.CountUnread(ctx, "user-123")
package inbox
