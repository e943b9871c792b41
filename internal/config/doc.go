// Package config loads and validates the workbench configuration.
//
// Configuration is a YAML file; fields absent from the file are filled
// with quick-preset defaults so a bare `workbench run` works out of the
// box. The loaded Config is immutable for the duration of a run.
//
// Secrets (the community API key) are never stored in the file; the
// config names an environment variable and the value is resolved at use
// time. watch.go provides fsnotify-based hot reload for repeat mode.
package config
