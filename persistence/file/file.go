/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package file persists snapshots as JSON or YAML documents.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/moby/sys/atomicwriter"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"

	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/storagemodels"
)

// Backend reads and writes one snapshot file.
type Backend[V any] struct {
	path string
	opts storagemodels.Options
	kind string
}

// New creates a Backend for path. The encoding follows the extension unless
// storagemodels.WithFormat overrides it.
func New[V any](path string, opts ...storagemodels.Option) *Backend[V] {
	o := storagemodels.Apply(opts...)
	o.Format = storagemodels.FormatFor(path, o.Format)
	return &Backend[V]{
		path: path,
		opts: o,
		kind: storagemodels.ResolveKind[V](o.Kind),
	}
}

// Source returns the file path
func (b *Backend[V]) Source() string {
	return b.path
}

// Format returns the resolved encoding
func (b *Backend[V]) Format() storagemodels.Format {
	return b.opts.Format
}

// SaveAll encodes entities and replaces the file
func (b *Backend[V]) SaveAll(ctx context.Context, entities []V) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := b.encode(storagemodels.NewSnapshot(b.kind, entities))
	if err != nil {
		return errors.NewIOFailureError("encode", b.path, err)
	}

	if b.opts.Atomic {
		err = atomicwriter.WriteFile(b.path, data, b.opts.FileMode)
	} else {
		err = os.WriteFile(b.path, data, b.opts.FileMode)
	}
	if err != nil {
		return errors.NewIOFailureError("write", b.path, err)
	}
	return nil
}

// LoadAll reads the file. A missing file is reported as found == false.
func (b *Backend[V]) LoadAll(ctx context.Context) ([]V, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.NewIOFailureError("read", b.path, err)
	}

	snapshot, err := b.decode(data)
	if err != nil {
		return nil, false, errors.NewCorruptDataError(b.path, err)
	}
	if err := snapshot.Check(b.kind); err != nil {
		return nil, false, errors.NewCorruptDataError(b.path, err)
	}
	return snapshot.Entities, true, nil
}

func (b *Backend[V]) encode(snapshot storagemodels.Snapshot[V]) ([]byte, error) {
	switch b.opts.Format {
	case storagemodels.FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(snapshot); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.Marshal(snapshot)
		if err != nil {
			return nil, err
		}
		if b.opts.Pretty {
			return pretty.Pretty(data), nil
		}
		return append(data, '\n'), nil
	}
}

func (b *Backend[V]) decode(data []byte) (storagemodels.Snapshot[V], error) {
	var snapshot storagemodels.Snapshot[V]
	if len(bytes.TrimSpace(data)) == 0 {
		return snapshot, fmt.Errorf("empty %s document", b.opts.Format)
	}

	var err error
	switch b.opts.Format {
	case storagemodels.FormatYAML:
		err = yaml.Unmarshal(data, &snapshot)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err = dec.Decode(&snapshot); err == nil && dec.More() {
			err = fmt.Errorf("trailing content after snapshot")
		}
	}
	return snapshot, err
}
