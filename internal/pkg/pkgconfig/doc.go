// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Business code depends on the Config interface; the Viper implementation reads
// a YAML file, applies defaults and lets GODATASET_* environment variables
// override individual keys.
package pkgconfig
