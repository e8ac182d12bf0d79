// Package config loads typed configuration structs from environment
// variables with optional .env file support.
//
// Configuration structs declare their sources via `env` tags (see
// github.com/caarlos0/env). Each struct type is parsed at most once per
// process and cached, so packages can load their own configs independently
// without re-reading the environment.
package config
