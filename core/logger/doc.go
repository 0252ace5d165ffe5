// Package logger builds slog loggers and provides attribute helpers.
//
// Loggers are configured with functional options. Presets cover the usual
// environments:
//
//	log := logger.New(logger.WithDevelopment("bookshelf"))        // text, debug
//	log := logger.New(logger.WithProduction("bookshelf"))         // JSON, info
//	log := logger.New(logger.WithEnvironment(cfg.Env, cfg.Name))  // by name
//
// Context extractors add request-scoped attributes to every *Context call:
//
//	log := logger.New(
//		logger.WithProduction("bookshelf"),
//		logger.WithContextExtractors(middleware.RequestIDExtractor()),
//	)
//	log.InfoContext(r.Context(), "book added", logger.BookID(book.ID))
//
// Attribute helpers that accept optional values (errors, IDs, strings) return
// an empty slog.Attr when the value is absent. slog omits empty attributes, so
//
//	log.Error("broadcast failed", logger.Error(err), logger.ObserverID(id))
//
// is safe whether or not err or id are set.
package logger
