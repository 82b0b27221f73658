// Package middleware provides HTTP middleware for the htmldesk API.
//
// Middleware stack includes:
//   - Recovery: Panic recovery with a JSON 500 response
//   - RequestID: ULID request IDs echoed in X-Request-ID
//   - Logger: Structured zap access logging
//   - CORS: Cross-origin resource sharing, local origins by default
//   - RateLimit: Per-IP token bucket rate limiting
//
// Rate Limiting:
//   - Per-IP tracking with cleanup of idle clients
//   - Token bucket algorithm
//   - Configurable RPS and burst capacity
//
// Example Usage:
//
//	router.Use(middleware.Recovery(logger), middleware.RequestID())
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
