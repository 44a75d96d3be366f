// Package memory provides in-memory implementations of driven port
// interfaces. Nothing is persisted.
package memory
