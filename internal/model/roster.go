package model

import "strings"

// RosterRecord is one licensed practitioner as published by the registry.
// Records are loaded once and shared read-only; nothing mutates them.
type RosterRecord struct {
	LastName           string `json:"last_name" yaml:"last_name"`
	FirstName          string `json:"first_name" yaml:"first_name"`
	MiddleName         string `json:"middle_name" yaml:"middle_name"`
	Address            string `json:"address" yaml:"address"`
	RegistrationDate   string `json:"registration_date" yaml:"registration_date"`
	RegistrationNumber string `json:"registration_number" yaml:"registration_number"`
}

// FullName returns the record's name in "LAST, FIRST MIDDLE" order, skipping
// empty parts.
func (r RosterRecord) FullName() string {
	given := strings.TrimSpace(strings.Join([]string{
		strings.TrimSpace(r.FirstName),
		strings.TrimSpace(r.MiddleName),
	}, " "))
	last := strings.TrimSpace(r.LastName)
	switch {
	case last == "":
		return given
	case given == "":
		return last
	default:
		return last + ", " + given
	}
}
