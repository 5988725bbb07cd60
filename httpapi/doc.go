// Package httpapi exposes the library over HTTP with JSON bodies under the /api prefix.
//
// Rule violations and malformed input answer 400, unknown ids 404, and everything else 500 with a
// generic message; the cause of a 500 is only logged.
package httpapi
