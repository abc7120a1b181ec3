// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. Stores and the analysis gateway log faults through it,
// but logging never substitutes for returning the fault to the caller.
package logging
