// Package cli implements the qs command: argument parsing into a Config and
// execution of the parse, build and merge commands.
package cli
