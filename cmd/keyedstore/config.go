/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/models"
)

// config is read from the environment and an optional .env file; flags
// override it.
type config struct {
	Data    string // file, database path or DynamoDB table
	Backend string // file, bolt, sqlite or ddb
	Kind    string // registered entity kind
	Verbose bool

	AWSAccessKey string
	AWSSecretKey string
	AWSRegion    string
	DDBTable     string

	MetricsOut string // write Prometheus text exposition here after each command
}

func defaultConfig() config {
	return config{
		Data:    "keyedstore.json",
		Backend: "file",
		Kind:    models.KindInventory,
	}
}

func loadConfig() config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring .env: %v", err)
	}

	cfg := defaultConfig()
	setFromEnv(&cfg.Data, "KEYEDSTORE_DATA")
	setFromEnv(&cfg.Backend, "KEYEDSTORE_BACKEND")
	setFromEnv(&cfg.Kind, "KEYEDSTORE_KIND")
	setFromEnv(&cfg.MetricsOut, "KEYEDSTORE_METRICS_OUT")
	setFromEnv(&cfg.AWSAccessKey, "AWS_ACCESS_KEY")
	setFromEnv(&cfg.AWSSecretKey, "AWS_SECRET_KEY")
	setFromEnv(&cfg.AWSRegion, "AWS_REGION")
	setFromEnv(&cfg.DDBTable, "AWS_DDB_TABLE")
	return cfg
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func (c config) debugf(format string, args ...any) {
	if c.Verbose {
		log.Printf(format, args...)
	}
}
