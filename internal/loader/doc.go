// Package loader reads dataset source files and builds wrapped datasets
// from the configuration.
package loader
