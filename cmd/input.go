package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/fetcher"
	"github.com/sells-group/roster-cli/internal/model"
)

// applicationColumns maps Application fields to accepted CSV headers.
var applicationColumns = map[string][]string{
	"application_id":      {"application_id", "app_id", "id"},
	"applicant_name":      {"applicant_name", "name", "full_name"},
	"first_name":          {"first_name", "firstname", "given_name"},
	"last_name":           {"last_name", "lastname", "surname"},
	"middle_name":         {"middle_name", "middlename", "mi"},
	"address":             {"address", "addr"},
	"registration_number": {"registration_number", "registration_no", "reg_no", "license_number"},
}

// readApplications reads a JSON array or a CSV file of applications.
func readApplications(ctx context.Context, path string) ([]model.Application, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open applications")
	}
	defer f.Close() //nolint:errcheck

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		apps, err := fetcher.ReadJSONArray[model.Application](ctx, f)
		if err != nil {
			return nil, eris.Wrapf(err, "read applications %s", path)
		}
		return apps, nil
	case ".csv":
		table, err := fetcher.ReadCSVTable(ctx, f, fetcher.CSVOptions{LazyQuotes: true})
		if err != nil {
			return nil, eris.Wrapf(err, "read applications %s", path)
		}
		rows := table.Maps()
		apps := make([]model.Application, 0, len(rows))
		for _, row := range rows {
			apps = append(apps, applicationFromRow(row))
		}
		return apps, nil
	default:
		return nil, eris.Errorf("unsupported applications file %q: want .json or .csv", path)
	}
}

func applicationFromRow(row map[string]string) model.Application {
	get := func(field string) string {
		for _, alias := range applicationColumns[field] {
			if v := row[alias]; v != "" {
				return v
			}
		}
		return ""
	}
	return model.Application{
		ApplicationID:      get("application_id"),
		ApplicantName:      get("applicant_name"),
		FirstName:          get("first_name"),
		LastName:           get("last_name"),
		MiddleName:         get("middle_name"),
		Address:            get("address"),
		RegistrationNumber: get("registration_number"),
	}
}
