// Package logging provides logging utilities for browserbox-ctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users and CI log scrapers
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("starting container", "name", name, "image", image)
//	logging.Warn("health poll failed", "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Waiting for container to report healthy...")
//	logging.UserSuccess("Probe %s passed", name)
//	logging.UserWarning("Teardown skipped (--keep)")
//	logging.UserError("Probe %s failed", name)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
