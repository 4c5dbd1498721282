// Package requestid correlates log records of one HTTP request. Middleware
// assigns each request an id, and LoggerExtractor adds it to records logged
// with the request context.
package requestid
