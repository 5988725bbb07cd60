// Package sqlitewrapper creates throwaway SQLite-backed stores for tests.
//
// Every store lives in its own file below t.TempDir(), is migrated on creation and is closed by t.Cleanup.
package sqlitewrapper
