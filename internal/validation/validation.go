// Package validation binds request data and validates it.
//
// Request types carry `validator` struct tags and implement Validatable.
// BindAndValidate turns bind and tag failures into a 400 *errs.HTTPError
// with one FieldError per offending field.
package validation
