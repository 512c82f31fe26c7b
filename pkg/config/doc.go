// Package config loads typed configuration from environment variables.
//
// Structs describe their variables with caarlos0/env tags. A .env file in the
// working directory, if present, is loaded once before the first parse;
// variables already set in the process win over the file.
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Load caches the result per type, so later calls are cheap and consistent.
// Parse skips the cache and is what tests use with WithEnvironment.
package config
