package planner

import (
	"bytes"
	"encoding/json"
)

// Plan is a to-do item for one day
type Plan struct {
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
}

// Achievement is a free-text log entry for one day
type Achievement struct {
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// DayRecord holds everything recorded for a single date
type DayRecord struct {
	Plans        []Plan        `json:"plans"`
	Achievements []Achievement `json:"achievements"`
	Rating       int           `json:"rating"`
	Notes        string        `json:"notes"`

	// memo is a loaded legacy "memo" value differing from Notes.
	// It is written back unchanged.
	memo string
}

// Document maps a YYYY-MM-DD date to its record
type Document map[string]*DayRecord

// NewDayRecord returns an all-default record
func NewDayRecord() *DayRecord {
	return &DayRecord{
		Plans:        []Plan{},
		Achievements: []Achievement{},
	}
}

// UnmarshalJSON applies defaults and reads the legacy "memo" field.
func (d *DayRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Plans        []Plan        `json:"plans"`
		Achievements []Achievement `json:"achievements"`
		Rating       int           `json:"rating"`
		Notes        *string       `json:"notes"`
		Memo         *string       `json:"memo"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = DayRecord{
		Plans:        raw.Plans,
		Achievements: raw.Achievements,
		Rating:       raw.Rating,
	}
	if d.Plans == nil {
		d.Plans = []Plan{}
	}
	if d.Achievements == nil {
		d.Achievements = []Achievement{}
	}

	// notes wins over memo unless it is empty
	switch {
	case raw.Notes != nil && *raw.Notes != "":
		d.Notes = *raw.Notes
	case raw.Memo != nil:
		d.Notes = *raw.Memo
	case raw.Notes != nil:
		d.Notes = *raw.Notes
	}
	if raw.Memo != nil && *raw.Memo != d.Notes {
		d.memo = *raw.Memo
	}
	return nil
}

// MarshalJSON writes "memo" only when a differing legacy value was loaded.
func (d DayRecord) MarshalJSON() ([]byte, error) {
	type plain DayRecord
	out := struct {
		plain
		Memo string `json:"memo,omitempty"`
	}{plain: plain(d), Memo: d.memo}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON replaces null day entries with default records.
func (doc *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]*DayRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Document, len(raw))
	for date, rec := range raw {
		if rec == nil {
			rec = NewDayRecord()
		}
		out[date] = rec
	}
	*doc = out
	return nil
}

// Clone returns a deep copy of the record
func (d *DayRecord) Clone() *DayRecord {
	c := &DayRecord{
		Plans:        make([]Plan, len(d.Plans)),
		Achievements: make([]Achievement, len(d.Achievements)),
		Rating:       d.Rating,
		Notes:        d.Notes,
		memo:         d.memo,
	}
	copy(c.Plans, d.Plans)
	copy(c.Achievements, d.Achievements)
	return c
}

// CompletedPlans counts completed plans in the record
func (d *DayRecord) CompletedPlans() int {
	n := 0
	for _, p := range d.Plans {
		if p.Completed {
			n++
		}
	}
	return n
}
