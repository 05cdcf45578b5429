// Package directory houses concrete implementations of the core.Directory
// lookup contract. The interface itself lives in the core package to
// centralize domain contracts; keeping only implementations here lets the
// orchestration layer stay independent of how handles are produced.
//
// Add additional backends (remote agent services, model-backed handles, etc.)
// without changing any calling code - only the wiring layer needs to decide
// which implementation to instantiate.
package directory
