// Package app is the composition root for flightsearch.
//
// # Startup
//
//  1. Load ~/.config/flightsearch/config.toml (defaults when missing)
//  2. Open the log file and the SQLite database, apply migrations
//  3. Seed the airport table from the bundled dataset when it is empty
//  4. Build the query facade, the write dispatcher, and the state machine
//  5. Restore the last search text and subscribe to favorites
//  6. Run the database file watcher and the TUI side by side
//
// # Lifecycle
//
// Run uses an errgroup for the watcher and the TUI. Quitting the TUI cancels
// the shared context, which stops the watcher; deferred closes then drain
// pending writes before the database is closed.
//
//	┌──────────────┐
//	│   Run()      │ config, log, database, seed
//	└──────┬───────┘
//	       │
//	       ├──→ Facade + AsyncDispatcher + Machine.Start
//	       │
//	       ├──→ errgroup: Watcher.Run (fsnotify)
//	       │
//	       └──→ errgroup: ui.Run (blocks until quit)
//
// CLI subcommands use Open directly and skip the TUI.
package app
