// Package graph defines the graph store contract consumed by the QA chain
// and provides a Neo4j-backed implementation.
package graph

import "context"

// Store is the interface for executing query statements against a graph
// database and describing its schema.
type Store interface {
	// Schema returns a formatted string describing the graph schema.
	Schema(ctx context.Context) (string, error)

	// Query executes a query statement and returns the result.
	Query(ctx context.Context, statement string) (Result, error)
}

// Result holds the result of a graph query.
type Result struct {
	Statement string
	Columns   []string
	Rows      []map[string]any
	Count     int
}
