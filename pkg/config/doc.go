// Package config loads typed configuration structs from environment
// variables using caarlos0/env struct tags, with optional .env file support
// via godotenv.
//
// Each configuration type is parsed exactly once per process and cached, so
// packages can call Load for their own Config without coordinating loading
// order. Connection URLs, transport credentials and broker addresses are all
// injected through the environment; no package reads configuration at import
// time.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
package config
