package kormarc

import (
	"encoding/json"
	"strings"
)

// Record is a complete KORMARC record: a leader plus ordered control
// and data field sequences. Field order is semantically meaningful and
// is preserved through every serialization surface.
//
// Records are immutable: the field slices are copied on construction
// and on access, and no operation mutates a Record in place.
type Record struct {
	leader        Leader
	controlFields []ControlField
	dataFields    []DataField
}

// NewRecord constructs a Record from a leader and field sequences.
func NewRecord(leader Leader, controlFields []ControlField, dataFields []DataField) *Record {
	cfs := make([]ControlField, len(controlFields))
	copy(cfs, controlFields)
	dfs := make([]DataField, len(dataFields))
	copy(dfs, dataFields)

	return &Record{
		leader:        leader,
		controlFields: cfs,
		dataFields:    dfs,
	}
}

// Leader returns the record leader.
func (r *Record) Leader() Leader { return r.leader }

// ControlFields returns the ordered control field sequence.
func (r *Record) ControlFields() []ControlField {
	cfs := make([]ControlField, len(r.controlFields))
	copy(cfs, r.controlFields)
	return cfs
}

// DataFields returns the ordered data field sequence.
func (r *Record) DataFields() []DataField {
	dfs := make([]DataField, len(r.dataFields))
	copy(dfs, r.dataFields)
	return dfs
}

// ControlField returns the first control field with the given tag.
func (r *Record) ControlField(tag string) (ControlField, bool) {
	for _, cf := range r.controlFields {
		if cf.tag == tag {
			return cf, true
		}
	}
	return ControlField{}, false
}

// DataField returns the first data field with the given tag.
func (r *Record) DataField(tag string) (DataField, bool) {
	for _, df := range r.dataFields {
		if df.tag == tag {
			return df, true
		}
	}
	return DataField{}, false
}

// HasDataField reports whether any data field carries the given tag.
func (r *Record) HasDataField(tag string) bool {
	_, ok := r.DataField(tag)
	return ok
}

// ISBN returns the record's ISBN, taken from the first 020 or 024
// field whose $a subfield is all digits after stripping hyphens and
// spaces. Returns "" when no such subfield exists.
func (r *Record) ISBN() string {
	for _, df := range r.dataFields {
		if df.tag != "020" && df.tag != "024" {
			continue
		}
		for _, sf := range df.subfields {
			if sf.code != "a" {
				continue
			}
			isbn := strings.NewReplacer("-", "", " ", "").Replace(sf.data)
			if isbn != "" && isDigits(isbn) {
				return isbn
			}
		}
	}
	return ""
}

// String renders the record in the line-oriented text form accepted by
// the parser: the leader line followed by one field per line.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.leader.String())
	b.WriteByte('\n')

	for _, cf := range r.controlFields {
		b.WriteString(cf.tag)
		b.WriteByte(' ')
		b.WriteString(cf.data)
		b.WriteByte('\n')
	}
	for _, df := range r.dataFields {
		b.WriteString(df.tag)
		b.WriteByte(' ')
		b.WriteString(df.indicator1)
		b.WriteString(df.indicator2)
		for _, sf := range df.subfields {
			b.WriteByte('|')
			b.WriteString(sf.code)
			b.WriteString(sf.data)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Equal reports whether two records are equal in leader, field order,
// and every field value.
func (r *Record) Equal(other *Record) bool {
	if other == nil {
		return false
	}
	if r.leader != other.leader {
		return false
	}
	if len(r.controlFields) != len(other.controlFields) {
		return false
	}
	for i := range r.controlFields {
		if r.controlFields[i] != other.controlFields[i] {
			return false
		}
	}
	if len(r.dataFields) != len(other.dataFields) {
		return false
	}
	for i := range r.dataFields {
		if !r.dataFields[i].Equal(other.dataFields[i]) {
			return false
		}
	}
	return true
}

// Serialized form: leader, control_fields, and data_fields. This is
// the exact shape accepted back by RecordFromJSON and RecordFromMap.

type subfieldJSON struct {
	Code string `json:"code"`
	Data string `json:"data"`
}

type controlFieldJSON struct {
	Tag  string `json:"tag"`
	Data string `json:"data"`
}

type dataFieldJSON struct {
	Tag        string         `json:"tag"`
	Indicator1 string         `json:"indicator1,omitempty"`
	Indicator2 string         `json:"indicator2,omitempty"`
	Subfields  []subfieldJSON `json:"subfields"`

	// Indicators is a legacy combined form ("10") accepted on input
	// from older stored rows. It is never emitted.
	Indicators string `json:"indicators,omitempty"`
}

type recordJSON struct {
	Leader        Leader             `json:"leader"`
	ControlFields []controlFieldJSON `json:"control_fields"`
	DataFields    []dataFieldJSON    `json:"data_fields"`
}

// MarshalJSON implements json.Marshaler.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		Leader:        r.leader,
		ControlFields: make([]controlFieldJSON, 0, len(r.controlFields)),
		DataFields:    make([]dataFieldJSON, 0, len(r.dataFields)),
	}
	for _, cf := range r.controlFields {
		out.ControlFields = append(out.ControlFields, controlFieldJSON{Tag: cf.tag, Data: cf.data})
	}
	for _, df := range r.dataFields {
		subs := make([]subfieldJSON, 0, len(df.subfields))
		for _, sf := range df.subfields {
			subs = append(subs, subfieldJSON{Code: sf.code, Data: sf.data})
		}
		out.DataFields = append(out.DataFields, dataFieldJSON{
			Tag:        df.tag,
			Indicator1: df.indicator1,
			Indicator2: df.indicator2,
			Subfields:  subs,
		})
	}
	return json.Marshal(out)
}

// RecordFromJSON reconstructs a Record from its serialized form. The
// decoded values pass through the same construction validation as the
// typed constructors; any violation fails with a *ValidationError.
func RecordFromJSON(data []byte) (*Record, error) {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	if in.Leader == (Leader{}) {
		return nil, &ValidationError{Field: "leader", Value: ""}
	}

	cfs := make([]ControlField, 0, len(in.ControlFields))
	for _, cf := range in.ControlFields {
		field, err := NewControlField(cf.Tag, cf.Data)
		if err != nil {
			return nil, err
		}
		cfs = append(cfs, field)
	}

	dfs := make([]DataField, 0, len(in.DataFields))
	for _, df := range in.DataFields {
		ind1, ind2 := df.Indicator1, df.Indicator2
		if ind1 == "" && df.Indicators != "" {
			runes := []rune(df.Indicators)
			ind1, ind2 = " ", " "
			if len(runes) > 0 {
				ind1 = string(runes[0])
			}
			if len(runes) > 1 {
				ind2 = string(runes[1])
			}
		}
		subs := make([]Subfield, 0, len(df.Subfields))
		for _, sf := range df.Subfields {
			sub, err := NewSubfield(sf.Code, sf.Data)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
		field, err := NewDataField(df.Tag, ind1, ind2, subs)
		if err != nil {
			return nil, err
		}
		dfs = append(dfs, field)
	}

	return NewRecord(in.Leader, cfs, dfs), nil
}

// RecordFromMap reconstructs a Record from the generic map form used
// by storage collaborators.
func RecordFromMap(m map[string]any) (*Record, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return RecordFromJSON(data)
}

// Map returns the record's generic map form: the inverse of
// RecordFromMap.
func (r *Record) Map() map[string]any {
	data, err := json.Marshal(r)
	if err != nil {
		// Record marshalling cannot fail: every field is a plain value.
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		panic(err)
	}
	return m
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
