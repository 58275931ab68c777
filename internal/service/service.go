// Package service contains the business logic.
//
// It sits between the handler and repository layers. Handlers pass
// it validated input and the authenticated caller; services enforce
// ownership, call repositories and schedule background work.
package service
