// Package harness is the run orchestrator: it verifies the image, starts
// the container under test, gates on its composite health signal, runs the
// independent probes, renders the summary, and guarantees teardown on
// every exit path.
package harness
