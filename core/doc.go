// Package core centralizes the domain contracts of veriscribe: the entity
// kinds and their open Document representation, the EntityStore interface
// implemented by the storage backends, the optional Queryer capability and
// the error taxonomy shared by stores and the analysis gateway.
//
// Keeping the contracts here (rather than next to an implementation) lets
// callers depend on interfaces only; the concrete backend is chosen once at
// process startup by the wiring layer.
package core
