/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"github.com/suparena/keyedstore/datastore"
	"github.com/suparena/keyedstore/lineimport"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Student is a graded pupil.
type Student struct {

	// Student number.
	// Required: true
	ID int `json:"Id" yaml:"Id"`

	// Full name.
	// Required: true
	Name string `json:"Name" yaml:"Name"`

	// Exam score.
	// Minimum: 0
	// Maximum: 100
	Score int `json:"Score" yaml:"Score"`
}

func (s Student) EntityKey() int { return s.ID }

func (s Student) Validate() error {
	if err := required("Name", s.Name); err != nil {
		return err
	}
	return inRange("Score", s.Score, MinScore, MaxScore)
}

// Letter maps the score to a letter grade
func (s Student) Letter() string {
	switch {
	case s.Score >= 90:
		return "A"
	case s.Score >= 80:
		return "B"
	case s.Score >= 70:
		return "C"
	case s.Score >= 60:
		return "D"
	default:
		return "F"
	}
}

// StudentScore regrades a student.
var StudentScore = datastore.Field[Student, int]{
	Name:  "Score",
	Check: func(v int) error { return inRange("Score", v, MinScore, MaxScore) },
	Set:   func(s *Student, v int) { s.Score = v },
}

// StudentSchema reads "id,name,score" lines.
var StudentSchema = lineimport.Schema[Student]{
	Arity: 3,
	Build: func(r lineimport.Record) (Student, error) {
		id, err := r.Int(0, "id")
		if err != nil {
			return Student{}, err
		}
		name, err := r.NonEmpty(1, "name")
		if err != nil {
			return Student{}, err
		}
		score, err := r.Int(2, "score")
		if err != nil {
			return Student{}, err
		}
		return Student{ID: id, Name: name, Score: score}, nil
	},
}

// ClassAverage returns the mean score, or 0 for an empty class.
func ClassAverage(students []Student) float64 {
	if len(students) == 0 {
		return 0
	}
	total := 0
	for _, s := range students {
		total += s.Score
	}
	return float64(total) / float64(len(students))
}
