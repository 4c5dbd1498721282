// Package logger builds slog loggers and provides attribute helpers with
// consistent key names.
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "pawpremium"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "premium granted",
//		logger.UserID(userID),
//		logger.Actor(adminEmail),
//	)
//
// Attribute helpers such as Error and SubscriptionID return an empty attr for
// zero values, so they can be passed unconditionally.
package logger
