// Package internal contains the implementation packages of inkpot.
//
// # Package Organization
//
//   - types: Category, Post, Comment and the StoreEvent change record
//   - store: in-memory category, post and comment stores with change events
//   - seed: YAML seed files, their validation and loading into the stores
//   - mockdata: random seed content for "inkpot init --sample"
//   - views: templ components for every HTML page
//   - server: chi routes for the pages, the JSON API, health and metrics
//   - middleware: request ids, logging, panic recovery, CORS and headers
//   - http: the listening http.Server and its graceful shutdown
//   - websocket: the hub pushing store events to browsers
//   - watcher: fsnotify-based seed file reloading
//   - metrics: Prometheus collectors for requests, events and record counts
//   - config, logging, errors, version: ambient support
//
// # Data Flow
//
// Handlers call the stores directly. Every store change is published as a
// StoreEvent; the websocket hub and the metrics recorder each subscribe with
// Store.Watch. Records never leave memory, so a restart starts over from the
// seed file.
package internal
