package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netra/internal/clinic/models"
)

func TestLookupIsCaseInsensitive(t *testing.T) {
	r := Default()
	for _, rec := range Seed() {
		for _, id := range []string{rec.HFRID, strings.ToUpper(rec.HFRID), strings.ToLower(rec.HFRID)} {
			found, ok := r.Lookup(id)
			require.True(t, ok, "lookup %q", id)
			assert.Equal(t, rec, found)
		}
	}
}

func TestLookupMisses(t *testing.T) {
	r := Default()
	for _, id := range []string{"00-00-0000-ZZZZ", "12-34-5678-ABC", "12345678ABCD", ""} {
		_, ok := r.Lookup(id)
		assert.False(t, ok, "lookup %q", id)
	}
}

func TestNewRejectsDuplicatesUnderCaseFolding(t *testing.T) {
	_, err := New([]models.ClinicRecord{
		{HFRID: "12-34-5678-ABCD", Name: "One"},
		{HFRID: "12-34-5678-abcd", Name: "Two"},
	})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestNewRejectsIncompleteRecords(t *testing.T) {
	_, err := New([]models.ClinicRecord{{HFRID: "  ", Name: "Nameless id"}})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = New([]models.ClinicRecord{{HFRID: "12-34", Name: ""}})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestAllPreservesOrderAndIsACopy(t *testing.T) {
	r := Default()
	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, "12-34-5678-ABCD", all[0].HFRID)

	all[0].Name = "mutated"
	again, _ := r.Lookup("12-34-5678-ABCD")
	assert.Equal(t, "Apollo Clinic - Jubilee Hills", again.Name)
}

func TestLoadFile(t *testing.T) {
	r, err := LoadFile("testdata/clinics.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	rec, ok := r.Lookup("33-44-5566-mnop")
	require.True(t, ok)
	assert.Equal(t, "LV Prasad Eye Institute - Banjara Hills", rec.Name)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("clinics:\n  - hfr_id: X\n    name: Y\n    phone: 1\n"))
	assert.Error(t, err)
}

func TestLoadRejectsDuplicates(t *testing.T) {
	doc := "clinics:\n  - hfr_id: AA-1\n    name: A\n  - hfr_id: aa-1\n    name: B\n"
	_, err := Load(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrDuplicateID)
}
