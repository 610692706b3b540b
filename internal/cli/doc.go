// Package cli is responsible for parsing command-line arguments, reading the
// configuration file and environment, and handling process-level concerns
// like exit codes. It translates them into the application's configuration
// and runs the requested command.
package cli
