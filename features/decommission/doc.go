// Package decommission writes a Book off the catalog.
//
// The write-off is all-or-nothing: the Book is loaded with every one of its loans inside an explicit
// transaction, and it is deleted only if none of them is Active. Decide holds the rule as a pure
// function; CommandHandler runs it against storage and PreviewHandler reports its outcome without
// changing anything.
package decommission
