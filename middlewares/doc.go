// Package middlewares provides net/http middleware for the resolver service.
//
// # Request ID
//
// RequestID assigns an ID to each request, reusing one from the incoming
// headers when present. Use RequestIDExtractor with the logger to add
// request_id to every log record:
//
//	log := logger.New(logger.Config{}, middlewares.RequestIDExtractor())
//	r.Use(middlewares.RequestID())
//
// # Recover
//
// Recover catches panics, logs them with a stack trace and writes a 500.
// The response can be customized with WithRecoverHandler.
//
//	r.Use(middlewares.Recover(middlewares.WithRecoverLogger(log)))
//
// # Request logging
//
// RequestLogger logs method, path, status, size and duration of each request.
//
//	r.Use(middlewares.RequestLogger(log))
package middlewares
