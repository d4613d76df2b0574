// Package postgres provides the PostgreSQL storage layer for Falah:
// a connection manager with optional read replicas and the versioned
// schema migrations for all domain tables.
//
// Domain packages receive *sql.DB handles from the ConnectionManager and
// own their queries. Every tenant scoped table carries a center_id column
// which the query layer filters through tenant.ApplyCenterFilter.
package postgres
