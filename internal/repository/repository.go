// Package repository handles all interactions with the database.
//
// Repositories query through the GORM session opened in the database
// package and wrap failures with the table they touched, so the error
// handler can turn a missing row into a 404 naming the entity.
package repository
