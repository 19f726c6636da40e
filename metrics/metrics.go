/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package metrics exports store operations as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/suparena/keyedstore/datastore"
	"github.com/suparena/keyedstore/errors"
)

const namespace = "keyedstore"

// Collector implements datastore.Observer by counting operations and
// tracking store sizes.
type Collector struct {
	operations *prometheus.CounterVec
	entities   *prometheus.GaugeVec
}

var _ datastore.Observer = (*Collector)(nil)

// NewCollector creates a Collector and registers it with reg. A nil reg
// leaves the metrics unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Store operations by store, operation and error kind.",
		}, []string{"store", "op", "result"}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Number of entities held by a store.",
		}, []string{"store"}),
	}
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c.operations); err != nil {
		return nil, err
	}
	if err := reg.Register(c.entities); err != nil {
		reg.Unregister(c.operations)
		return nil, err
	}
	return c, nil
}

// Observe records one operation. result is the error kind, "none" on success.
func (c *Collector) Observe(store, op string, size int, err error) {
	c.operations.WithLabelValues(store, op, errors.KindOf(err).String()).Inc()
	c.entities.WithLabelValues(store).Set(float64(size))
}

// Operations returns the operations counter for use in tests and custom exporters.
func (c *Collector) Operations() *prometheus.CounterVec {
	return c.operations
}

// Entities returns the size gauge.
func (c *Collector) Entities() *prometheus.GaugeVec {
	return c.entities
}
