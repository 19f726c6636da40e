/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"os"
	"path/filepath"
	"strings"
)

// Format is the textual encoding of a file snapshot.
type Format int

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// FormatFor resolves FormatAuto from the path extension; anything but
// .yaml or .yml is JSON.
func FormatFor(path string, f Format) Format {
	if f != FormatAuto {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Options configures persistence backends
type Options struct {
	Kind     string      // Kind written into and expected from snapshots
	Format   Format      // File encoding (default: auto)
	Pretty   bool        // Indent JSON output (default: true)
	Atomic   bool        // Replace files atomically (default: true)
	FileMode os.FileMode // Permissions for created files (default: 0644)
}

// Option is a functional option for configuring persistence
type Option func(*Options)

// DefaultOptions returns default persistence options
func DefaultOptions() Options {
	return Options{
		Format:   FormatAuto,
		Pretty:   true,
		Atomic:   true,
		FileMode: 0o644,
	}
}

// Apply builds Options from defaults and opts
func Apply(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithKind sets the kind name stored in snapshots
func WithKind(kind string) Option {
	return func(o *Options) {
		o.Kind = kind
	}
}

// WithFormat forces a file encoding
func WithFormat(f Format) Option {
	return func(o *Options) {
		o.Format = f
	}
}

// WithPretty toggles indented JSON
func WithPretty(pretty bool) Option {
	return func(o *Options) {
		o.Pretty = pretty
	}
}

// WithAtomic toggles atomic file replacement
func WithAtomic(atomic bool) Option {
	return func(o *Options) {
		o.Atomic = atomic
	}
}

// WithFileMode sets permissions for created files
func WithFileMode(mode os.FileMode) Option {
	return func(o *Options) {
		o.FileMode = mode
	}
}
