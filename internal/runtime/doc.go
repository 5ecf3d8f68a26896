// Package runtime is the lifecycle manager for the container under test.
// It is the only component that mutates external state: it starts the
// container with its resource grants and port bindings, reads its runtime
// and health status, execs probe commands inside it, fetches logs for
// diagnostics, and stops and removes it at teardown.
package runtime
