// Package books implements the catalog operations on Books: registration, lookups and plain deletion.
//
// Writing a Book off with a liquidation report is a separate workflow, see package decommission.
package books
