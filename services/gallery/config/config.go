// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads gallery service settings from a YAML file with
// environment overrides. Environment variables win over the file; the file
// wins over defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the root of gallery.yaml.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
		Mode string `yaml:"mode"` // gin mode: debug, release, test
	} `yaml:"server"`

	Store struct {
		Path     string `yaml:"path"`
		InMemory bool   `yaml:"in_memory"`
	} `yaml:"store"`

	Auth struct {
		// SecretFile is preferred; Secret is a fallback for dev setups.
		Secret     string `yaml:"secret"`
		SecretFile string `yaml:"secret_file"`
	} `yaml:"auth"`

	Images struct {
		Backend   string `yaml:"backend"` // gcs or local
		Bucket    string `yaml:"bucket"`
		SAKeyPath string `yaml:"sa_key_path"`
		Dir       string `yaml:"dir"`      // local backend
		BaseURL   string `yaml:"base_url"` // local backend
	} `yaml:"images"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Log struct {
		Level string `yaml:"level"` // debug, info, warn, error
	} `yaml:"log"`

	Otel struct {
		Enabled  bool   `yaml:"enabled"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"otel"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() Config {
	var c Config
	c.Server.Addr = ":8080"
	c.Server.Mode = "release"
	c.Store.Path = "/data/gallery"
	c.Images.Backend = "local"
	c.Images.Dir = "/data/images"
	c.Images.BaseURL = "http://localhost:8080/images"
	c.RateLimit.RPS = 0.2
	c.RateLimit.Burst = 2
	c.Log.Level = "info"
	c.Otel.Endpoint = "localhost:4317"
	return c
}

// Load reads path (if it exists) over the defaults, then applies GALLERY_*
// environment overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return c, fmt.Errorf("parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// defaults + env only
		default:
			return c, fmt.Errorf("read %s: %w", path, err)
		}
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Addr, "GALLERY_ADDR")
	setString(&c.Server.Mode, "GALLERY_GIN_MODE")
	setString(&c.Store.Path, "GALLERY_STORE_PATH")
	setBool(&c.Store.InMemory, "GALLERY_STORE_IN_MEMORY")
	setString(&c.Auth.Secret, "GALLERY_JWT_SECRET")
	setString(&c.Auth.SecretFile, "GALLERY_JWT_SECRET_FILE")
	setString(&c.Images.Backend, "GALLERY_IMAGES_BACKEND")
	setString(&c.Images.Bucket, "GALLERY_IMAGES_BUCKET")
	setString(&c.Images.SAKeyPath, "GALLERY_IMAGES_SA_KEY")
	setString(&c.Images.Dir, "GALLERY_IMAGES_DIR")
	setString(&c.Images.BaseURL, "GALLERY_IMAGES_BASE_URL")
	setFloat(&c.RateLimit.RPS, "GALLERY_RATE_RPS")
	setInt(&c.RateLimit.Burst, "GALLERY_RATE_BURST")
	setString(&c.Log.Level, "GALLERY_LOG_LEVEL")
	setBool(&c.Otel.Enabled, "GALLERY_OTEL_ENABLED")
	setString(&c.Otel.Endpoint, "GALLERY_OTEL_ENDPOINT")
}

// JWTSecret resolves the signing secret: file first, then inline value.
func (c *Config) JWTSecret() ([]byte, error) {
	if c.Auth.SecretFile != "" {
		data, err := os.ReadFile(c.Auth.SecretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret: %w", err)
		}
		return data, nil
	}
	if c.Auth.Secret != "" {
		return []byte(c.Auth.Secret), nil
	}
	return nil, fmt.Errorf("no jwt secret configured")
}

func setString(dst *string, key string) {
	if v, found := os.LookupEnv(key); found {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, found := os.LookupEnv(key); found {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func setInt(dst *int, key string) {
	if v, found := os.LookupEnv(key); found {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setFloat(dst *float64, key string) {
	if v, found := os.LookupEnv(key); found {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}
