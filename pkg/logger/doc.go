// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package standardises structured logging across the notification core by
// exposing a single factory, New, that creates a *slog.Logger configured by a
// set of Option functions:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled from
//     a context value (for example a request id) every time Handle is invoked.
//
// Helper constructors such as Error, Channel, TaskID, Key and Algorithm live
// in attr.go and return commonly-used slog.Attr instances to keep attribute
// naming consistent across the codebase.
//
// Usage:
//
//	log := logger.New(
//		logger.WithProduction("notifyd"),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "notification dispatched",
//		logger.TaskID(taskID),
//		logger.Channel("email"),
//	)
package logger
