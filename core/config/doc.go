// Package config loads struct-tagged settings from the environment.
//
// A .env file in the working directory is read once on first use; a missing
// file is ignored. Fields are parsed with caarlos0/env, so defaults and
// required variables are declared in struct tags:
//
//	type StorageConfig struct {
//		Driver string `env:"STORAGE_DRIVER" envDefault:"memory"`
//		Seed   bool   `env:"STORAGE_SEED" envDefault:"true"`
//	}
//
//	var storage StorageConfig
//	if err := config.Load(&storage); err != nil {
//		return err
//	}
//
// The first successful Load of a type is cached and later calls for the same
// type copy the cached value, even if the environment changed in between.
// MustLoad panics instead of returning an error and is meant for main.
package config
