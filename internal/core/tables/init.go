// Package tables registers the clinic's import definitions with the core
// registry. Import it for side effects to make them available.
package tables

// Each file uses init() to register its definition.
