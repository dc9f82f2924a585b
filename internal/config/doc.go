// Package config defines the application configuration structure and the
// loader that populates it from environment variables and optional config
// files, validating the result before use.
package config
