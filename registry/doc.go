/*
Package registry manages kind names and named groupings for stored types.

Kind Registry:
Maps Go types to the kind names written into snapshots, so a file saved from
an inventory store cannot silently be loaded into a student store:

	registry.RegisterKind[models.InventoryItem]("inventory")
	name, ok := registry.KindName[models.InventoryItem]()

Grouping Registry:
Associates Go types with named secondary-key functions used to build indexes:

	registry.RegisterGrouping("patient", func(p Prescription) string {
	    return p.PatientID
	})
	byPatient, err := registry.Grouping[Prescription]("patient")

The registry is thread-safe and should be populated during initialization,
typically in init() functions.
*/
package registry
