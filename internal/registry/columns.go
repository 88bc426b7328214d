package registry

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/roster-cli/internal/fetcher"
	"github.com/sells-group/roster-cli/internal/model"
)

// columnAliases maps each roster field to the header spellings accepted for
// it, canonical name first. Keys are compared after fetcher.HeaderKey.
var columnAliases = map[string][]string{
	"last_name":           {"last_name", "lastname", "surname", "family_name"},
	"first_name":          {"first_name", "firstname", "given_name", "givenname"},
	"middle_name":         {"middle_name", "middlename", "middle_initial", "mi"},
	"address":             {"address", "addr", "residence"},
	"registration_date":   {"registration_date", "reg_date", "date_registered", "date_of_registration"},
	"registration_number": {"registration_number", "registration_no", "reg_no", "reg_number", "license_number", "license_no", "prc_no"},
}

func lookup(row map[string]string, field string) string {
	for _, alias := range columnAliases[field] {
		if v, ok := row[alias]; ok && v != "" {
			return v
		}
	}
	return ""
}

// recordFromRow maps one header-keyed row onto a RosterRecord.
func recordFromRow(row map[string]string) model.RosterRecord {
	return model.RosterRecord{
		LastName:           lookup(row, "last_name"),
		FirstName:          lookup(row, "first_name"),
		MiddleName:         lookup(row, "middle_name"),
		Address:            lookup(row, "address"),
		RegistrationDate:   lookup(row, "registration_date"),
		RegistrationNumber: lookup(row, "registration_number"),
	}
}

func recordsFromRows(rows []map[string]string) []model.RosterRecord {
	records := make([]model.RosterRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromRow(row))
	}
	return records
}

// recordFromValues handles JSON and YAML objects, whose values may be
// numbers or dates rather than strings.
func recordFromValues(obj map[string]any) model.RosterRecord {
	row := make(map[string]string, len(obj))
	for k, v := range obj {
		row[fetcher.HeaderKey(k)] = strings.TrimSpace(stringify(v))
	}
	return recordFromRow(row)
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
