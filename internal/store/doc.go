// Package store persists lists, items, the section catalog, learned keywords,
// and access tokens in SQLite.
//
// Migrations are embedded and applied on open; they also seed the fixed
// French section catalog and the initial keyword table. All methods take a
// context and return explicit errors; absence is reported as a nil result,
// not an error.
package store
