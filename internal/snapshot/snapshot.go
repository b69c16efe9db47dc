// Package snapshot encodes, decodes and validates full ledger backups.
package snapshot

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"rental/internal/ledger"
	"rental/internal/models"
)

const FormatVersion = 1

type Snapshot struct {
	FormatVersion int               `json:"format_version"`
	ExportedAt    time.Time         `json:"exported_at"`
	Properties    []models.Property `json:"properties"`
	Units         []models.Unit     `json:"units"`
	Tenants       []models.Tenant   `json:"tenants"`
	Leases        []models.Lease    `json:"leases"`
	Payments      []models.Payment  `json:"payments"`
	Receipts      []models.Receipt  `json:"receipts"`
	Settings      models.Settings   `json:"settings"`
	TotalRecords  Counts            `json:"total_records"`
}

type Counts struct {
	Properties int `json:"properties"`
	Units      int `json:"units"`
	Tenants    int `json:"tenants"`
	Leases     int `json:"leases"`
	Payments   int `json:"payments"`
	Receipts   int `json:"receipts"`
}

// New assembles a snapshot and fills in its record counts.
func New(exportedAt time.Time, properties []models.Property, units []models.Unit, tenants []models.Tenant, leases []models.Lease, payments []models.Payment, receipts []models.Receipt, settings models.Settings) Snapshot {
	s := Snapshot{
		FormatVersion: FormatVersion,
		ExportedAt:    exportedAt.UTC(),
		Properties:    nonNil(properties),
		Units:         nonNil(units),
		Tenants:       nonNil(tenants),
		Leases:        nonNil(leases),
		Payments:      nonNil(payments),
		Receipts:      nonNil(receipts),
		Settings:      settings,
	}
	s.TotalRecords = s.Count()
	return s
}

func (s Snapshot) Count() Counts {
	return Counts{
		Properties: len(s.Properties),
		Units:      len(s.Units),
		Tenants:    len(s.Tenants),
		Leases:     len(s.Leases),
		Payments:   len(s.Payments),
		Receipts:   len(s.Receipts),
	}
}

func Encode(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

var arrayKeys = []string{"properties", "units", "tenants", "leases", "payments", "receipts"}

// Decode parses and validates a snapshot. Every failure, including a bad
// reference between records, is reported as ledger.ErrMalformedSnapshot.
func Decode(r io.Reader) (Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Snapshot{}, ledger.Malformed("invalid JSON: %v", err)
	}
	for _, key := range append([]string{"format_version", "exported_at", "settings"}, arrayKeys...) {
		if _, ok := raw[key]; !ok {
			return Snapshot{}, ledger.Malformed("missing key %q", key)
		}
	}
	for _, key := range arrayKeys {
		if !bytes.HasPrefix(bytes.TrimSpace(raw[key]), []byte("[")) {
			return Snapshot{}, ledger.Malformed("%q must be an array", key)
		}
	}

	var s Snapshot
	fields := []struct {
		key  string
		dest any
	}{
		{"format_version", &s.FormatVersion},
		{"exported_at", &s.ExportedAt},
		{"properties", &s.Properties},
		{"units", &s.Units},
		{"tenants", &s.Tenants},
		{"leases", &s.Leases},
		{"payments", &s.Payments},
		{"receipts", &s.Receipts},
		{"settings", &s.Settings},
	}
	for _, f := range fields {
		if err := json.Unmarshal(raw[f.key], f.dest); err != nil {
			return Snapshot{}, ledger.Malformed("%s: %v", f.key, err)
		}
	}
	if s.FormatVersion != FormatVersion {
		return Snapshot{}, ledger.Malformed("unsupported format_version %d", s.FormatVersion)
	}
	s.TotalRecords = s.Count()
	if err := Validate(s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
