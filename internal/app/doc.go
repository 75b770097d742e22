// Package app is the composition root of the ideas client.
//
// # Boot Sequence
//
//  1. config.Load reads config.toml, .env and IDEAS_* overrides
//  2. logging.Setup sends zerolog output to the log file
//  3. storage.Open opens the Pebble database in state_dir
//  4. location.NewBar resolves the view URL from the command line against
//     page_url
//  5. session.Restore reconciles the URL with the stored view state and
//     writes the result back to both
//  6. listing.NewClient, metrics.New and controller.New build the request
//     side; the metrics listener starts only when metrics_addr is set
//  7. banner.Load reads the banner document; a local document is watched
//     for changes
//  8. ui.Run blocks until the user quits or the context is cancelled
//
// Run returns the view URL in effect at exit.
//
// Boot performs steps 3 to 7 and is what the tests exercise.
package app
