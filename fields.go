package kormarc

import (
	"regexp"
	"unicode/utf8"
)

// Tag patterns for the two field ranges.
var (
	controlTagPattern = regexp.MustCompile(`^00[1-9]$`)
	dataTagPattern    = regexp.MustCompile(`^(0[1-9][0-9]|[1-9][0-9]{2})$`)
)

// Subfield is a single coded datum within a data field. The code is
// exactly one character. Subfields are immutable values.
type Subfield struct {
	code string
	data string
}

// NewSubfield constructs a Subfield. A code that is not exactly one
// character fails with a *ValidationError.
func NewSubfield(code, data string) (Subfield, error) {
	if utf8.RuneCountInString(code) != 1 {
		return Subfield{}, &ValidationError{Field: "subfield_code", Value: code}
	}
	return Subfield{code: code, data: data}, nil
}

// Code returns the one-character subfield code.
func (s Subfield) Code() string { return s.code }

// Data returns the subfield data.
func (s Subfield) Data() string { return s.data }

// ControlField is a field in the control range (tags 001-009) whose
// data is not subdivided into subfields. ControlFields are immutable
// values.
type ControlField struct {
	tag  string
	data string
}

// NewControlField constructs a ControlField. A tag outside 001-009
// fails with a *ValidationError.
func NewControlField(tag, data string) (ControlField, error) {
	if !controlTagPattern.MatchString(tag) {
		return ControlField{}, &ValidationError{Field: "control_field_tag", Value: tag}
	}
	return ControlField{tag: tag, data: data}, nil
}

// Tag returns the 3-digit field tag.
func (f ControlField) Tag() string { return f.tag }

// Data returns the field data.
func (f ControlField) Data() string { return f.data }

// DataField is a field in the data range (tags 010-999) carrying two
// one-character indicators and an ordered sequence of subfields.
// DataFields are immutable values; the subfield sequence is copied on
// construction and on access.
type DataField struct {
	tag        string
	indicator1 string
	indicator2 string
	subfields  []Subfield
}

// NewDataField constructs a DataField. A tag outside 010-999 or an
// indicator that is not exactly one character (a literal space is
// valid) fails with a *ValidationError.
func NewDataField(tag, indicator1, indicator2 string, subfields []Subfield) (DataField, error) {
	if !dataTagPattern.MatchString(tag) {
		return DataField{}, &ValidationError{Field: "data_field_tag", Value: tag}
	}
	if utf8.RuneCountInString(indicator1) != 1 {
		return DataField{}, &ValidationError{Field: "indicator1", Value: indicator1}
	}
	if utf8.RuneCountInString(indicator2) != 1 {
		return DataField{}, &ValidationError{Field: "indicator2", Value: indicator2}
	}

	copied := make([]Subfield, len(subfields))
	copy(copied, subfields)

	return DataField{
		tag:        tag,
		indicator1: indicator1,
		indicator2: indicator2,
		subfields:  copied,
	}, nil
}

// Tag returns the 3-digit field tag.
func (f DataField) Tag() string { return f.tag }

// Indicator1 returns the first indicator.
func (f DataField) Indicator1() string { return f.indicator1 }

// Indicator2 returns the second indicator.
func (f DataField) Indicator2() string { return f.indicator2 }

// Subfields returns the ordered subfield sequence.
func (f DataField) Subfields() []Subfield {
	copied := make([]Subfield, len(f.subfields))
	copy(copied, f.subfields)
	return copied
}

// Subfield returns the first subfield with the given code.
func (f DataField) Subfield(code string) (Subfield, bool) {
	for _, sf := range f.subfields {
		if sf.code == code {
			return sf, true
		}
	}
	return Subfield{}, false
}

// HasSubfield reports whether any subfield carries the given code.
func (f DataField) HasSubfield(code string) bool {
	_, ok := f.Subfield(code)
	return ok
}

// Equal reports whether two data fields are equal in tag, indicators,
// and subfield sequence.
func (f DataField) Equal(other DataField) bool {
	if f.tag != other.tag || f.indicator1 != other.indicator1 || f.indicator2 != other.indicator2 {
		return false
	}
	if len(f.subfields) != len(other.subfields) {
		return false
	}
	for i := range f.subfields {
		if f.subfields[i] != other.subfields[i] {
			return false
		}
	}
	return true
}
