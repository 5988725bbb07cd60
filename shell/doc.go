// Package shell holds the infrastructure shared by the feature packages of the university library:
// retrying storage workflows on concurrency conflicts and instrumenting commands and queries
// with metrics, tracing and logging.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
