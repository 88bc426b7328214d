package model

// Application is a self-reported practitioner identity submitted for
// verification. MiddleName, Address and RegistrationNumber are optional and
// left empty when absent.
type Application struct {
	ApplicationID      string `json:"application_id"`
	ApplicantName      string `json:"applicant_name,omitempty"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	MiddleName         string `json:"middle_name,omitempty"`
	Address            string `json:"address,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

// NormalizedApplication has the same shape as Application with every textual
// field canonicalized. It is only built by resolve.NormalizeApplication.
type NormalizedApplication struct {
	ApplicationID      string
	ApplicantName      string
	FirstName          string
	LastName           string
	MiddleName         string
	Address            string
	RegistrationNumber string
}
