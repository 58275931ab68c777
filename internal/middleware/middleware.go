// Package middleware holds the echo middleware shared by every route.
//
// Global middleware assigns request IDs, opens New Relic transactions,
// logs each request and recovers from panics. Route groups add Clerk
// authentication on top; the rate limiter runs per client IP.
package middleware
