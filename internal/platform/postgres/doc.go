// Package postgres implements store.ResultStore on PostgreSQL.
//
// Queries run through store.DBTX, so a ResultStore can be built on either a
// *sql.DB opened with the pgx stdlib driver or on a *sql.Tx. Schema changes are
// embedded goose migrations applied by Migrate. Driver errors are translated to
// the store package's sentinel errors by MapError.
package postgres
