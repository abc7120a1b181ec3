// Package entity houses concrete implementations of the core.EntityStore.
// The interface itself (and the Document type) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages from depending on concrete storage.
//
// Backends:
//   - InMemoryStore: volatile map store for tests and ephemeral demos.
//   - FileStore: durable store persisting each collection as one JSON array
//     file, read-modify-written as a whole on every mutation.
//   - hosted.Store (sub-package): client for a hosted document database.
//
// Additional backends belong in sub-packages; only the wiring layer decides
// which implementation to instantiate.
package entity
