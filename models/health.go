/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"github.com/go-openapi/strfmt"

	"github.com/suparena/keyedstore/datastore"
	"github.com/suparena/keyedstore/lineimport"
)

// Patient is a registered patient.
type Patient struct {

	// Medical record number.
	// Required: true
	ID string `json:"Id" yaml:"Id"`

	// Full name.
	// Required: true
	Name string `json:"Name" yaml:"Name"`

	// Date of birth.
	// Format: date
	BirthDate strfmt.Date `json:"BirthDate" yaml:"BirthDate"`
}

func (p Patient) EntityKey() string { return p.ID }

func (p Patient) Validate() error {
	if err := required("Id", p.ID); err != nil {
		return err
	}
	return required("Name", p.Name)
}

// Prescription is a drug prescribed to a patient.
type Prescription struct {

	// Prescription number.
	// Required: true
	ID int `json:"Id" yaml:"Id"`

	// Patient the prescription was issued to.
	// Required: true
	PatientID string `json:"PatientId" yaml:"PatientId"`

	// Drug name.
	// Required: true
	Drug string `json:"Drug" yaml:"Drug"`

	// Dosage instructions, e.g. "200mg twice daily".
	Dosage string `json:"Dosage,omitempty" yaml:"Dosage,omitempty"`

	// Date of issue.
	// Format: date
	Issued strfmt.Date `json:"Issued" yaml:"Issued"`
}

func (p Prescription) EntityKey() int { return p.ID }

func (p Prescription) Validate() error {
	if err := required("PatientId", p.PatientID); err != nil {
		return err
	}
	return required("Drug", p.Drug)
}

// PrescriptionDosage changes the dosage instructions.
var PrescriptionDosage = datastore.Field[Prescription, string]{
	Name:  "Dosage",
	Check: func(d string) error { return required("Dosage", d) },
	Set:   func(p *Prescription, d string) { p.Dosage = d },
}

// PatientSchema reads "id,name,birthdate" lines.
var PatientSchema = lineimport.Schema[Patient]{
	Arity: 3,
	Build: func(r lineimport.Record) (Patient, error) {
		id, err := r.NonEmpty(0, "id")
		if err != nil {
			return Patient{}, err
		}
		name, err := r.NonEmpty(1, "name")
		if err != nil {
			return Patient{}, err
		}
		born, err := r.Date(2, "birthdate")
		if err != nil {
			return Patient{}, err
		}
		return Patient{ID: id, Name: name, BirthDate: born}, nil
	},
}

// PrescriptionSchema reads "id,patient,drug,dosage,issued" lines.
var PrescriptionSchema = lineimport.Schema[Prescription]{
	Arity: 5,
	Build: func(r lineimport.Record) (Prescription, error) {
		id, err := r.Int(0, "id")
		if err != nil {
			return Prescription{}, err
		}
		patient, err := r.NonEmpty(1, "patient")
		if err != nil {
			return Prescription{}, err
		}
		drug, err := r.NonEmpty(2, "drug")
		if err != nil {
			return Prescription{}, err
		}
		issued, err := r.Date(4, "issued")
		if err != nil {
			return Prescription{}, err
		}
		return Prescription{ID: id, PatientID: patient, Drug: drug, Dosage: r.String(3), Issued: issued}, nil
	},
}
