// Package index builds secondary groupings over store snapshots, such as
// prescriptions grouped by patient or inventory items grouped by category.
package index
