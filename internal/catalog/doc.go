// Package catalog registers the bundled tables and forms with the core
// registry. Import it for its side effects.
package catalog
