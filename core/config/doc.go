// Package config provides type-safe environment variable loading with
// per-type caching. A .env file is loaded automatically on first use; struct
// fields are parsed with caarlos0/env tags.
//
//	type GatewayConfig struct {
//		LoginPath string `env:"GUARD_LOGIN_PATH" envDefault:"/api/auth/login"`
//	}
//
//	var cfg GatewayConfig
//	config.MustLoad(&cfg)
package config
