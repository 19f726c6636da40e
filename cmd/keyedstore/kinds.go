/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/pretty"

	"github.com/suparena/keyedstore/datastore"
	"github.com/suparena/keyedstore/datastore/memory"
	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/index"
	"github.com/suparena/keyedstore/lineimport"
	"github.com/suparena/keyedstore/models"
	"github.com/suparena/keyedstore/persistence"
	"github.com/suparena/keyedstore/registry"
)

// handler runs the commands for one entity kind.
type handler interface {
	Import(ctx context.Context, r io.Reader) (int, error)
	List(ctx context.Context, w io.Writer) error
	Get(ctx context.Context, id string, w io.Writer) error
	Remove(ctx context.Context, id string) error
	Set(ctx context.Context, id, field, value string) error
	Group(ctx context.Context, by string, w io.Writer) error
	Convert(ctx context.Context, to target) (int, error)
}

type kindHandler[K comparable, V datastore.Entity[K]] struct {
	cfg      config
	observer datastore.Observer
	parseKey func(string) (K, error)
	schema   lineimport.Schema[V]
	setters  map[string]func(string) (datastore.Patch[V], error)
}

func newHandler(cfg config, obs datastore.Observer) (handler, error) {
	switch cfg.Kind {
	case models.KindInventory:
		return &kindHandler[int, models.InventoryItem]{
			cfg: cfg, observer: obs, parseKey: intKey, schema: models.InventorySchema,
			setters: map[string]func(string) (datastore.Patch[models.InventoryItem], error){
				"quantity": intSetter(models.InventoryQuantity),
				"category": stringSetter(models.InventoryCategory),
			},
		}, nil
	case models.KindStudent:
		return &kindHandler[int, models.Student]{
			cfg: cfg, observer: obs, parseKey: intKey, schema: models.StudentSchema,
			setters: map[string]func(string) (datastore.Patch[models.Student], error){
				"score": intSetter(models.StudentScore),
			},
		}, nil
	case models.KindPatient:
		return &kindHandler[string, models.Patient]{
			cfg: cfg, observer: obs, parseKey: stringKey, schema: models.PatientSchema,
		}, nil
	case models.KindPrescription:
		return &kindHandler[int, models.Prescription]{
			cfg: cfg, observer: obs, parseKey: intKey, schema: models.PrescriptionSchema,
			setters: map[string]func(string) (datastore.Patch[models.Prescription], error){
				"dosage": stringSetter(models.PrescriptionDosage),
			},
		}, nil
	case models.KindAccount:
		return &kindHandler[string, models.Account]{
			cfg: cfg, observer: obs, parseKey: stringKey, schema: models.AccountSchema,
		}, nil
	case models.KindTransaction:
		return &kindHandler[int, models.Transaction]{
			cfg: cfg, observer: obs, parseKey: intKey, schema: models.TransactionSchema,
		}, nil
	default:
		return nil, errors.NewNotRegisteredError("kind", cfg.Kind)
	}
}

func intKey(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewBadFormatError(0, "id", s, err)
	}
	return id, nil
}

func stringKey(s string) (string, error) {
	return s, nil
}

func intSetter[V any](f datastore.Field[V, int]) func(string) (datastore.Patch[V], error) {
	return func(raw string) (datastore.Patch[V], error) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.NewBadFormatError(0, f.Name, raw, err)
		}
		return f.To(n), nil
	}
}

func stringSetter[V any](f datastore.Field[V, string]) func(string) (datastore.Patch[V], error) {
	return func(raw string) (datastore.Patch[V], error) {
		return f.To(raw), nil
	}
}

func (h *kindHandler[K, V]) load(ctx context.Context) (*memory.Store[K, V], persistence.Backend[V], error) {
	backend, err := openBackend[V](ctx, h.cfg, target{Backend: h.cfg.Backend, Data: h.cfg.Data})
	if err != nil {
		return nil, nil, err
	}
	opts := []memory.Option{memory.WithName(h.cfg.Kind)}
	if h.observer != nil {
		opts = append(opts, memory.WithObserver(h.observer))
	}
	store, found, err := persistence.Load[K, V](ctx, backend, opts...)
	if err != nil {
		return nil, nil, err
	}
	h.cfg.debugf("loaded %d %s entities from %s (found=%v)", store.Len(), h.cfg.Kind, backend.Source(), found)
	return store, backend, nil
}

func (h *kindHandler[K, V]) save(ctx context.Context, store *memory.Store[K, V], backend persistence.Backend[V]) error {
	if err := persistence.Save[V](ctx, store, backend); err != nil {
		return err
	}
	h.cfg.debugf("saved %d %s entities to %s", store.Len(), h.cfg.Kind, backend.Source())
	return nil
}

func (h *kindHandler[K, V]) Import(ctx context.Context, r io.Reader) (int, error) {
	store, backend, err := h.load(ctx)
	if err != nil {
		return 0, err
	}
	n, err := lineimport.ImportInto[K, V](store, h.schema, r)
	if err != nil {
		return 0, err
	}
	return n, h.save(ctx, store, backend)
}

func (h *kindHandler[K, V]) List(ctx context.Context, w io.Writer) error {
	store, _, err := h.load(ctx)
	if err != nil {
		return err
	}
	return writeJSON(w, store.GetAll())
}

func (h *kindHandler[K, V]) Get(ctx context.Context, id string, w io.Writer) error {
	key, err := h.parseKey(id)
	if err != nil {
		return err
	}
	store, _, err := h.load(ctx)
	if err != nil {
		return err
	}
	entity, err := store.GetByID(key)
	if err != nil {
		return err
	}
	return writeJSON(w, entity)
}

func (h *kindHandler[K, V]) Remove(ctx context.Context, id string) error {
	key, err := h.parseKey(id)
	if err != nil {
		return err
	}
	store, backend, err := h.load(ctx)
	if err != nil {
		return err
	}
	if err := store.Remove(key); err != nil {
		return err
	}
	return h.save(ctx, store, backend)
}

func (h *kindHandler[K, V]) Set(ctx context.Context, id, field, value string) error {
	setter, ok := h.setters[field]
	if !ok {
		return errors.NewNotRegisteredError("field", h.cfg.Kind+"."+field)
	}
	key, err := h.parseKey(id)
	if err != nil {
		return err
	}
	store, backend, err := h.load(ctx)
	if err != nil {
		return err
	}
	// existence is checked before the value is parsed
	if !store.Contains(key) {
		return errors.NewNotFoundError(h.cfg.Kind, id)
	}
	patch, err := setter(value)
	if err != nil {
		return err
	}
	if err := store.UpdateField(key, patch); err != nil {
		return err
	}
	return h.save(ctx, store, backend)
}

func (h *kindHandler[K, V]) Group(ctx context.Context, by string, w io.Writer) error {
	groupKey, err := registry.Grouping[V](by)
	if err != nil {
		return err
	}
	store, _, err := h.load(ctx)
	if err != nil {
		return err
	}
	ix := index.Build[string, V](store, groupKey)
	for _, g := range ix.Groups() {
		members := ix.LookupGroup(g)
		if _, err := fmt.Fprintf(w, "# %s (%d)\n", g, len(members)); err != nil {
			return err
		}
		if err := writeJSON(w, members); err != nil {
			return err
		}
	}
	return nil
}

func (h *kindHandler[K, V]) Convert(ctx context.Context, to target) (int, error) {
	store, _, err := h.load(ctx)
	if err != nil {
		return 0, err
	}
	dst, err := openBackend[V](ctx, h.cfg, to)
	if err != nil {
		return 0, err
	}
	if err := h.save(ctx, store, dst); err != nil {
		return 0, err
	}
	return store.Len(), nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}
