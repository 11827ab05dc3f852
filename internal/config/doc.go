// Package config defines the format-agnostic settings model for the
// expander, along with the Loader interface for reading settings from a
// project file.
//
// Settings are layered: built-in defaults, then the project file, then
// command-line flags. Each layer records which fields it actually provided,
// so an unset flag never hides a value from the file. Concrete loaders, such
// as the HCL one, live in separate packages.
package config
