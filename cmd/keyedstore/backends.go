/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/suparena/keyedstore/persistence"
	"github.com/suparena/keyedstore/persistence/bolt"
	"github.com/suparena/keyedstore/persistence/ddb"
	"github.com/suparena/keyedstore/persistence/file"
	"github.com/suparena/keyedstore/persistence/sqlite"
	"github.com/suparena/keyedstore/storagemodels"
)

var backendNames = []string{"file", "bolt", "sqlite", "ddb"}

// target names a backend and where it keeps its data
type target struct {
	Backend string
	Data    string
}

func openBackend[V any](ctx context.Context, cfg config, t target) (persistence.Backend[V], error) {
	opts := []storagemodels.Option{storagemodels.WithKind(cfg.Kind)}
	switch t.Backend {
	case "file":
		return file.New[V](t.Data, opts...), nil
	case "bolt":
		return bolt.New[V](t.Data, opts...), nil
	case "sqlite":
		return sqlite.New[V](t.Data, opts...), nil
	case "ddb":
		table := t.Data
		if table == "" {
			table = cfg.DDBTable
		}
		client, err := ddb.NewClient(ctx, cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		log.Printf("DynamoDB client initialized for table: %s in region: %s", table, cfg.AWSRegion)
		return ddb.New[V](client, table, opts...), nil
	default:
		return nil, fmt.Errorf("unknown backend %q, want one of %v", t.Backend, backendNames)
	}
}
