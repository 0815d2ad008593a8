// Package dispatch holds the per-category handlers the classifier routes
// raw messages to: status records, rate-limit notices, stall warnings,
// disconnect notices, and a catch-all for everything else.
package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"streamcap/internal/constants"
	"streamcap/pkg/fieldpath"
)

// Record is a decoded status message, kept as the raw JSON object so any
// configured field path can address any attribute.
type Record map[string]interface{}

// ParseRecord decodes a raw status message. Numbers stay json.Number so
// large identifiers survive the round trip to text.
func ParseRecord(raw []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return Record(obj), nil
}

func (r Record) IDStr() string {
	id, _ := fieldpath.ResolveWithDefault(r, "id_str", "").(string)
	return id
}

func (r Record) Text() string {
	text, _ := fieldpath.ResolveWithDefault(r, "text", "").(string)
	return text
}

// CreatedAt parses the record's embedded creation timestamp.
func (r Record) CreatedAt() (time.Time, error) {
	value, ok := fieldpath.ResolveWithDefault(r, "created_at", "").(string)
	if !ok || value == "" {
		return time.Time{}, fmt.Errorf("record has no created_at")
	}
	ts, err := time.Parse(constants.CreatedAtLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", value, err)
	}
	return ts, nil
}

// LimitNotice reports how many matching records the endpoint withheld.
type LimitNotice struct {
	Limit struct {
		Track int64 `json:"track"`
	} `json:"limit"`
}

// WarningNotice is a stall warning from the endpoint.
type WarningNotice struct {
	Warning struct {
		Code        string  `json:"code"`
		Message     string  `json:"message"`
		PercentFull float64 `json:"percent_full"`
	} `json:"warning"`
}

// excerpt truncates raw message text for diagnostics.
func excerpt(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > constants.DefaultTruncateLen {
		return string(trimmed[:constants.DefaultTruncateLen]) + "..."
	}
	return string(trimmed)
}
