// Package models contains GORM persistence models that map to database tables.
// Domain records stay free of ORM tags; each model converts with ToDomain and
// a XModelFromDomain constructor.
//
// Structure:
//   - base.go: shared persistence fields
//   - commerce.go: order, purchase, marketing, catalog, customer, payment and shipment records
//   - snapshot.go: profit/loss snapshots with JSON breakdown columns
package models
