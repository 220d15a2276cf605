// Package models contains the GORM persistence models that map to database
// tables. They are kept separate from domain entities so the domain layer
// stays free of ORM tags and table concerns; ToDomain/FromDomain mappers
// convert between the two.
package models
