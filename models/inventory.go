/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"github.com/suparena/keyedstore/datastore"
	"github.com/suparena/keyedstore/lineimport"
)

// InventoryItem is a stocked article in the warehouse.
type InventoryItem struct {

	// Unique identifier of the item.
	// Required: true
	ID int `json:"Id" yaml:"Id"`

	// Display name.
	// Required: true
	Name string `json:"Name" yaml:"Name"`

	// Category the item is shelved under.
	Category string `json:"Category,omitempty" yaml:"Category,omitempty"`

	// Units in stock.
	// Minimum: 0
	Quantity int `json:"Quantity" yaml:"Quantity"`
}

func (i InventoryItem) EntityKey() int { return i.ID }

// Validate checks the item can be stored
func (i InventoryItem) Validate() error {
	if err := required("Name", i.Name); err != nil {
		return err
	}
	return nonNegative("Quantity", i.Quantity)
}

// InventoryQuantity updates the units in stock.
var InventoryQuantity = datastore.Field[InventoryItem, int]{
	Name:  "Quantity",
	Check: func(q int) error { return nonNegative("Quantity", q) },
	Set:   func(i *InventoryItem, q int) { i.Quantity = q },
}

// InventoryCategory moves an item to another category.
var InventoryCategory = datastore.Field[InventoryItem, string]{
	Name: "Category",
	Set:  func(i *InventoryItem, c string) { i.Category = c },
}

// InventorySchema reads "id,name,category,quantity" lines.
var InventorySchema = lineimport.Schema[InventoryItem]{
	Arity: 4,
	Build: func(r lineimport.Record) (InventoryItem, error) {
		id, err := r.Int(0, "id")
		if err != nil {
			return InventoryItem{}, err
		}
		name, err := r.NonEmpty(1, "name")
		if err != nil {
			return InventoryItem{}, err
		}
		qty, err := r.Int(3, "quantity")
		if err != nil {
			return InventoryItem{}, err
		}
		return InventoryItem{ID: id, Name: name, Category: r.String(2), Quantity: qty}, nil
	},
}

// LowStock matches items with fewer than threshold units.
func LowStock(threshold int) func(InventoryItem) bool {
	return func(i InventoryItem) bool { return i.Quantity < threshold }
}
