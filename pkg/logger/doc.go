// Package logger builds *slog.Logger instances with functional options and
// supplies attribute helpers that keep workflow log records consistent.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// handler with LogHandlerDecorator. The decorator adds attributes stored in the
// context with ContextWithAttrs and runs any registered ContextExtractor before
// delegating to the wrapped handler.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithDevelopment("order-service"),
//	    logger.WithContextValue("request_id", ctxKeyRequestID),
//	)
//
//	ctx = logger.ContextWithAttrs(ctx, logger.Workflow("orders"))
//	log.InfoContext(ctx, "transition applied",
//	    logger.Transition("pay"),
//	    logger.From(order.State),
//	    logger.To("paid"),
//	)
//
// Libraries that accept an optional logger fall back to Discard.
//
// # Configuration
//
//   - WithDevelopment / WithStaging / WithProduction / WithEnvironment set level, format and env attrs.
//   - WithFormat / WithTextFormatter / WithJSONFormatter override the output format.
//   - WithLevel, WithOutput and WithHandlerOptions tune the handler.
//   - WithAttr attaches static attributes.
//   - WithContextExtractors / WithContextValue inject attributes from context.
//
// NewFromConfig builds the same options from a Config read by LoadConfig
// (APP_ENV, APP_NAME, LOG_LEVEL, LOG_FORMAT).
//
// Error and Errors return an empty attribute for nil errors, so they can be passed
// unconditionally.
package logger
