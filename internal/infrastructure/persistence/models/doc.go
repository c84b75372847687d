// Package models contains GORM persistence models. They are kept apart from
// the domain types so the analytics core stays free of ORM tags.
package models
