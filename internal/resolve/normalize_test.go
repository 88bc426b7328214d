package resolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "", Normalize("\t\n"))
}

func TestNormalize_Uppercase(t *testing.T) {
	assert.Equal(t, "LUIS", Normalize("Luis"))
	assert.Equal(t, "BAUAN, BATANGAS", Normalize("Bauan, Batangas"))
}

func TestNormalize_CollapseSpaces(t *testing.T) {
	assert.Equal(t, "LUIS AMURAO", Normalize("  Luis   \t Amurao \n"))
}

func TestNormalize_MisencodedEnye(t *testing.T) {
	assert.Equal(t, "MUNOZ", Normalize("MuÃ±oz"))
	assert.Equal(t, "PENA", Normalize("PEÃ‘A"))
	assert.Equal(t, "PENA", Normalize("PEÃ\u0091A"))
}

func TestNormalize_FoldsDiacritics(t *testing.T) {
	assert.Equal(t, "JOSE MARIA", Normalize("José María"))
	assert.Equal(t, "PENA", Normalize("Peña"))
	assert.Equal(t, "NONO", Normalize("Ñoño"))
	assert.Equal(t, "ANGELES", Normalize("Ángeles"))
	// Decomposed input folds the same way as precomposed.
	assert.Equal(t, "JOSE", Normalize("Jose\u0301"))
}

func TestNormalize_PreservesPunctuation(t *testing.T) {
	assert.Equal(t, "STA. CRUZ, LAGUNA", Normalize("Sta. Cruz, Laguna"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"  amurao jr ",
		"José   María",
		"MuÃ±oz",
		"PEÃ‘A",
		"a \u0301 b",
		"Ñ ñ",
		"Straße",
		"İstanbul",
		"123 Rizal St., Brgy. 4",
		"ǰ",
		"Jǰ",
		"ẗ",
		"ẘ",
		"ΐ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
		assert.Equal(t, strings.ToUpper(once), once, "input %q", in)
	}
}

func TestNormalize_FoldsLettersWithoutUppercaseForm(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ǰ", "J"},
		{"Jǰ", "JJ"},
		{"ẗ", "T"},
		{"ẘ", "W"},
		{"ΐ", "Ι"},
		{"moǰica", "MOJICA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeApplication(t *testing.T) {
	app := model.Application{
		ApplicationID:      " app-1 ",
		ApplicantName:      "luis e. amurao",
		FirstName:          " Luis ",
		LastName:           "amurao  jr",
		MiddleName:         "é",
		Address:            "Bauan,   Batangas",
		RegistrationNumber: " 5 ",
	}

	got := NormalizeApplication(app)

	assert.Equal(t, model.NormalizedApplication{
		ApplicationID:      "app-1",
		ApplicantName:      "LUIS E. AMURAO",
		FirstName:          "LUIS",
		LastName:           "AMURAO JR",
		MiddleName:         "E",
		Address:            "BAUAN, BATANGAS",
		RegistrationNumber: "5",
	}, got)
	// Input is a value; the caller's copy is untouched.
	assert.Equal(t, " Luis ", app.FirstName)
}
