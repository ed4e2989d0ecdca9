// Package commands defines the dhchat CLI.
//
// # Commands
//
//   - listen: wait for one peer and chat with it
//   - connect [addr]: dial a listening peer and chat with it
//   - profile save|list|rm: remember peer address and protocol settings by name
//   - version: print the build version
//
// # Implementation
//
// The root command resolves the home directory, builds the app wiring
// (logger, metrics, profile store, session service) and applies a named
// profile before any subcommand runs. Flags set explicitly on the command
// line always win over profile values.
package commands
