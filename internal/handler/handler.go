// Package handler is the HTTP layer behind the router.
//
// Each endpoint declares a request type with validator tags; the generic
// Handle pipeline binds and validates it, then the handler calls the
// service layer and returns the response body.
package handler
