/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package bolt_test

import (
	"context"
	"encoding/binary"
	"path/filepath"
	"reflect"
	"testing"

	"go.etcd.io/bbolt"

	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/persistence/bolt"
	"github.com/suparena/keyedstore/storagemodels"
)

type part struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

var parts = []part{
	{ID: "p9", Name: "washer", Price: 0.05},
	{ID: "p1", Name: "bolt", Price: 0.4},
	{ID: "p5", Name: "nut", Price: 0.1},
}

func manyParts(n int) []part {
	out := make([]part, n)
	for i := range out {
		out[i] = part{ID: string(rune('a' + i%26)), Name: "x", Price: float64(n - i)}
	}
	return out
}

func TestBoltRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")
	backend := bolt.New[part](path, storagemodels.WithKind("parts"))

	if err := backend.SaveAll(ctx, parts); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	got, found, err := backend.LoadAll(ctx)
	if err != nil || !found {
		t.Fatalf("LoadAll failed: found=%v err=%v", found, err)
	}
	if !reflect.DeepEqual(got, parts) {
		t.Fatalf("Expected %v, got %v", parts, got)
	}

	t.Run("OrderBeyondOneByte", func(t *testing.T) {
		// sequence keys must sort numerically past 255 entries
		many := manyParts(300)
		if err := backend.SaveAll(ctx, many); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		got, _, err := backend.LoadAll(ctx)
		if err != nil || !reflect.DeepEqual(got, many) {
			t.Fatalf("Order not preserved: err=%v", err)
		}
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		if err := backend.SaveAll(ctx, parts[:1]); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		got, _, _ := backend.LoadAll(ctx)
		if len(got) != 1 || got[0].ID != "p9" {
			t.Fatalf("Expected single entity after replace, got %v", got)
		}
	})

	t.Run("EmptySnapshotIsFound", func(t *testing.T) {
		if err := backend.SaveAll(ctx, nil); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		got, found, err := backend.LoadAll(ctx)
		if err != nil || !found || len(got) != 0 {
			t.Fatalf("Expected found empty snapshot, got %v %v %v", got, found, err)
		}
	})
}

func TestBoltNoData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("MissingFile", func(t *testing.T) {
		got, found, err := bolt.New[part](filepath.Join(dir, "absent.db")).LoadAll(ctx)
		if err != nil || found || got != nil {
			t.Fatalf("Expected no data, got %v %v %v", got, found, err)
		}
	})

	t.Run("OtherKindOnly", func(t *testing.T) {
		path := filepath.Join(dir, "shared.db")
		if err := bolt.New[part](path, storagemodels.WithKind("parts")).SaveAll(ctx, parts); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		got, found, err := bolt.New[part](path, storagemodels.WithKind("spares")).LoadAll(ctx)
		if err != nil || found || got != nil {
			t.Fatalf("Expected no data for other kind, got %v %v %v", got, found, err)
		}
	})
}

func TestBoltCorruptEntry(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "corrupt.db")
	backend := bolt.New[part](path, storagemodels.WithKind("parts"))
	if err := backend.SaveAll(ctx, parts); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	db, err := bbolt.Open(path, 0o644, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, 1)
		return tx.Bucket([]byte("parts")).Put(key, []byte("{not json"))
	})
	db.Close()
	if err != nil {
		t.Fatal(err)
	}

	_, found, err := backend.LoadAll(ctx)
	if !errors.IsCorruptData(err) {
		t.Fatalf("Expected corrupt data error, got %v", err)
	}
	if found {
		t.Fatal("Corrupt data must not be reported as found")
	}
}

func TestBoltNegativeCount(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "header.db")
	backend := bolt.New[part](path, storagemodels.WithKind("parts"))
	if err := backend.SaveAll(ctx, parts); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	db, err := bbolt.Open(path, 0o644, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte("meta")).Put([]byte("parts"), []byte(`{"version":1,"kind":"parts","count":-1}`))
	})
	db.Close()
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := backend.LoadAll(ctx); !errors.IsCorruptData(err) {
		t.Fatalf("Expected corrupt data error, got %v", err)
	}
}

func TestBoltIOFailure(t *testing.T) {
	backend := bolt.New[part](filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	if err := backend.SaveAll(context.Background(), parts); !errors.IsIOFailure(err) {
		t.Fatalf("Expected I/O failure, got %v", err)
	}
}
