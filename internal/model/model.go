// Package model defines the persisted entities and the shapes
// they take on the wire.
//
// Row models carry both `gorm` tags (how the ORM maps them to
// columns) and `json` tags (how handlers serialize them).
package model
