// Package logger builds the service's *slog.Logger.
//
// New takes functional options: format (JSON or text), level, output, static
// attributes, and ContextExtractor callbacks that pull request-scoped values
// such as the request id out of the context on every record.
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "courseguard"),
//		logger.WithContextExtractors(requestIDFromContext),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "lesson completed",
//		logger.UserID(userID),
//		logger.Component("learning"),
//	)
//
// Helpers in attr.go keep attribute keys consistent across packages.
package logger
