package entities

import (
	"fmt"
	"strings"

	"github.com/clinassist/assessment/pkg/errors"
)

var validGenders = map[string]bool{
	"Male":   true,
	"Female": true,
	"Other":  true,
	"M":      true,
	"F":      true,
}

var validSeverities = map[SymptomSeverity]bool{
	SeverityMild:     true,
	SeverityModerate: true,
	SeveritySevere:   true,
}

// ValidatePatient checks the required patient fields before a record is created
func ValidatePatient(p Patient) error {
	if p.Name == "" {
		return errors.NewValidationError("patient name is required")
	}
	if p.Age == 0 {
		return errors.NewValidationError("patient age is required")
	}
	if p.Age < 0 || p.Age > 150 {
		return errors.NewValidationError("patient age must be between 0 and 150")
	}
	if p.Gender == "" {
		return errors.NewValidationError("patient gender is required")
	}
	if !validGenders[p.Gender] {
		return errors.NewValidationError("patient gender must be one of: Male, Female, Other, M, F")
	}
	return nil
}

// ValidateSymptoms checks the symptom list before a record is created.
// An empty severity defaults to moderate rather than failing.
func ValidateSymptoms(symptoms []Symptom) error {
	if len(symptoms) == 0 {
		return errors.NewValidationError("at least one symptom is required")
	}
	for idx, s := range symptoms {
		if s.Name == "" {
			return errors.NewValidationError(fmt.Sprintf("symptom %d name is required", idx+1))
		}
		if s.Severity != "" {
			sev := SymptomSeverity(strings.ToLower(string(s.Severity)))
			if !validSeverities[sev] {
				return errors.NewValidationError(fmt.Sprintf("symptom %d severity must be one of: mild, moderate, severe", idx+1))
			}
		}
		if s.DurationDays < 0 {
			return errors.NewValidationError(fmt.Sprintf("symptom %d duration must be non-negative", idx+1))
		}
	}
	return nil
}

// NormalizeSymptoms lowercases severities and applies the moderate default
func NormalizeSymptoms(symptoms []Symptom) []Symptom {
	out := make([]Symptom, len(symptoms))
	for i, s := range symptoms {
		if s.Severity == "" {
			s.Severity = SeverityModerate
		} else {
			s.Severity = SymptomSeverity(strings.ToLower(string(s.Severity)))
		}
		out[i] = s
	}
	return out
}

// ValidateAssessmentInput validates patient and symptoms together
func ValidateAssessmentInput(p Patient, symptoms []Symptom) error {
	if err := ValidatePatient(p); err != nil {
		return err
	}
	return ValidateSymptoms(symptoms)
}
