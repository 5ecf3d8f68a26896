// Package config holds the harness configuration: the image under test,
// the fixed container name and port bindings, resource grants, and the
// timing knobs for the health wait and probe retries.
//
// Precedence is defaults < TOML config file < environment < flags; the cmd
// layer applies the last step.
package config
