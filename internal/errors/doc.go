// Package errors defines the error type and exit-code mapping for
// browserbox-ctl. Fatal aborts (missing image, launch failure, container
// exit during the health wait, health-wait timeout) and probe failures all
// map to a single non-zero exit code; the distinction between them lives in
// the run flow, not the exit code.
package errors
