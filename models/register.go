/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import "github.com/suparena/keyedstore/registry"

// Kind names under which the models are registered.
const (
	KindInventory    = "inventory"
	KindStudent      = "student"
	KindPatient      = "patient"
	KindPrescription = "prescription"
	KindAccount      = "account"
	KindTransaction  = "transaction"
)

func init() {
	registry.RegisterKind[InventoryItem](KindInventory)
	registry.RegisterKind[Student](KindStudent)
	registry.RegisterKind[Patient](KindPatient)
	registry.RegisterKind[Prescription](KindPrescription)
	registry.RegisterKind[Account](KindAccount)
	registry.RegisterKind[Transaction](KindTransaction)

	registry.RegisterGrouping("category", func(i InventoryItem) string { return i.Category })
	registry.RegisterGrouping("letter", Student.Letter)
	registry.RegisterGrouping("patient", func(p Prescription) string { return p.PatientID })
	registry.RegisterGrouping("account", func(t Transaction) string { return t.AccountID })
	registry.RegisterGrouping("kind", func(a Account) string { return a.Kind.String() })
}
