// Package logtail reads the end of the flightsearch log file and prints it
// for humans.
//
// The TUI owns the terminal while it runs, so its zerolog output goes to a
// JSON-lines file. Tail returns the last N lines of that file using a ring
// buffer, so large logs are never held in memory. Print re-renders each JSON
// event with zerolog's ConsoleWriter and can drop events below a level. Lines
// that are not JSON are printed unchanged.
package logtail
