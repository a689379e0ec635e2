// Package registry holds the read-only table of verified clinics.
//
// A Registry is built once at startup and never mutated, so lookups are safe
// from any number of goroutines. Identifiers match case-insensitively and must
// be unique under that folding; New rejects a table that breaks this.
package registry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"netra/internal/clinic/models"
)

var (
	ErrDuplicateID   = errors.New("duplicate clinic id")
	ErrInvalidRecord = errors.New("invalid clinic record")
)

// Registry is an immutable, case-insensitive index of clinic records.
type Registry struct {
	byID    map[string]models.ClinicRecord
	ordered []models.ClinicRecord
}

// New validates records and builds the index.
func New(records []models.ClinicRecord) (*Registry, error) {
	r := &Registry{
		byID:    make(map[string]models.ClinicRecord, len(records)),
		ordered: make([]models.ClinicRecord, 0, len(records)),
	}
	for i, rec := range records {
		rec.HFRID = strings.TrimSpace(rec.HFRID)
		rec.Name = strings.TrimSpace(rec.Name)
		if rec.HFRID == "" || rec.Name == "" {
			return nil, fmt.Errorf("%w: entry %d needs hfr_id and name", ErrInvalidRecord, i)
		}
		key := normalize(rec.HFRID)
		if prev, ok := r.byID[key]; ok {
			return nil, fmt.Errorf("%w: %q collides with %q", ErrDuplicateID, rec.HFRID, prev.HFRID)
		}
		r.byID[key] = rec
		r.ordered = append(r.ordered, rec)
	}
	return r, nil
}

// Seed returns the built-in clinic table.
func Seed() []models.ClinicRecord {
	return []models.ClinicRecord{
		{HFRID: "12-34-5678-ABCD", Name: "Apollo Clinic - Jubilee Hills", Address: "Road No. 36, Jubilee Hills, Hyderabad"},
		{HFRID: "98-76-5432-WXYZ", Name: "Max Healthcare - Saket", Address: "Press Enclave Marg, Saket, New Delhi"},
		{HFRID: "11-22-3344-EFGH", Name: "Fortis Hospital - Bannerghatta", Address: "Bannerghatta Road, Bengaluru"},
	}
}

// Default builds the registry from Seed.
func Default() *Registry {
	r, err := New(Seed())
	if err != nil {
		panic(fmt.Sprintf("registry seed is invalid: %v", err))
	}
	return r
}

type file struct {
	Clinics []models.ClinicRecord `yaml:"clinics"`
}

// Load reads a YAML document of the form
//
//	clinics:
//	  - hfr_id: 12-34-5678-ABCD
//	    name: Apollo Clinic - Jubilee Hills
//	    address: Road No. 36, Jubilee Hills, Hyderabad
func Load(r io.Reader) (*Registry, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	return New(f.Clinics)
}

// LoadFile is Load on the file at path.
func LoadFile(path string) (*Registry, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry file: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

// Lookup finds a clinic by identifier, ignoring case.
func (r *Registry) Lookup(hfrID string) (models.ClinicRecord, bool) {
	rec, ok := r.byID[normalize(hfrID)]
	return rec, ok
}

// All returns the records in load order.
func (r *Registry) All() []models.ClinicRecord {
	out := make([]models.ClinicRecord, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func (r *Registry) Len() int {
	return len(r.ordered)
}

func normalize(hfrID string) string {
	return strings.ToLower(strings.TrimSpace(hfrID))
}
