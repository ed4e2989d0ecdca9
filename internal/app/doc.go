// Package app wires application dependencies for the CLI.
//
// It builds the logger, the metrics observer, the profile store and the
// session service from Config, exposing them via the Wire struct for commands
// to use.
package app
