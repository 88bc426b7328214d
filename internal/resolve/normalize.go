// Package resolve matches practitioner applications against the registry
// roster: normalization, gestalt field similarity, weighted composite
// scoring, candidate ranking and verdict classification.
package resolve

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/roster-cli/internal/model"
)

// mojibake repairs the legacy roster export artifact where a UTF-8 Ñ/ñ was
// decoded as Latin-1 or CP1252.
var mojibake = strings.NewReplacer(
	"Ã‘", "N", // Ñ read as CP1252
	"Ã\u0091", "N", // Ñ read as Latin-1
	"Ã±", "n", // ñ
)

// Normalize canonicalizes a free-text field for comparison by:
//  1. Repairing the mis-encoded Ñ/ñ byte sequences
//  2. Folding diacritics (É → E, Ñ → N)
//  3. Converting to uppercase
//  4. Trimming and collapsing whitespace runs into single spaces
//
// Empty input yields "". Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = mojibake.Replace(text)
	// Fold before uppercasing: letters such as ǰ and ẗ have no uppercase
	// form until their mark is stripped.
	text = foldDiacritics(text)
	text = strings.ToUpper(text)

	return strings.Join(strings.Fields(text), " ")
}

// foldDiacritics strips combining marks after canonical decomposition.
// ASCII input is returned untouched.
func foldDiacritics(s string) string {
	if isASCII(s) {
		return s
	}
	// transform chains carry state, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// NormalizeApplication canonicalizes every textual field of app.
func NormalizeApplication(app model.Application) model.NormalizedApplication {
	return model.NormalizedApplication{
		ApplicationID:      strings.TrimSpace(app.ApplicationID),
		ApplicantName:      Normalize(app.ApplicantName),
		FirstName:          Normalize(app.FirstName),
		LastName:           Normalize(app.LastName),
		MiddleName:         Normalize(app.MiddleName),
		Address:            Normalize(app.Address),
		RegistrationNumber: Normalize(app.RegistrationNumber),
	}
}
