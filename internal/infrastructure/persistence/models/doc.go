// Package models contains the GORM rows behind the live tenant directory and catalogs.
// Each model converts to and from its domain type with ToDomain / FromDomain.
package models
