// Package loans lends Books to students and takes them back.
//
// Every mutation pairs a stock change with a loan change inside one library.Tx, so neither is ever
// visible without the other. Borrowing the last copy twice is impossible: the stock decrement is a
// conditional write, and a lost race surfaces as library.ErrNoStock. Writes that lose against a
// concurrent transaction in storage are retried with exponential backoff.
package loans
