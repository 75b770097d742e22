// Package logtail reads the end of the ideas log file for the "ideas logs"
// command. The TUI owns the terminal while it runs, so the log file is the
// only place its diagnostics go.
package logtail
