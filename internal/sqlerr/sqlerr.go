// Package sqlerr specifically handles database driver errors.
//
// It parses error codes from pgx and lookup misses from GORM and
// converts them into client-facing errs.HTTPError values (e.g. a
// "foreign key violation" becomes a "Bad Request", a missing row
// becomes a "Not Found")
package sqlerr
