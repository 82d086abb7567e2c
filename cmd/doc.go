// Package cmd provides the command-line interface for inkpot.
//
// This package implements all CLI commands using the Cobra framework.
//
// # Available Commands
//
//   - serve: Start the blog server, optionally loading and watching a seed file
//   - list: Print the records of a seed file as a table, JSON or YAML
//   - init: Write a starter configuration and seed file
//   - validate: Check the configuration and report dangling references
//   - version: Print build information
//
// # Command Examples
//
//	// Write .inkpot.yml and seed.yml
//	inkpot init
//
//	// Serve on another port, reloading the seed file on change
//	inkpot serve --port 3000 --seed seed.yml --watch-seed
//
//	// List posts with their category names as JSON
//	inkpot list posts --output json
//
// # Configuration
//
// Settings are read from .inkpot.yml (or the file named by --config or
// INKPOT_CONFIG_FILE) and may be overridden with INKPOT_<SECTION>_<OPTION>
// environment variables and command-line flags.
package cmd
