// Package postgreswrapper opens a migrated PostgreSQL store for integration tests.
// Tests using it are skipped unless LIBRARY_TEST_POSTGRES_DSN is set.
package postgreswrapper
