package kormarc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// LeaderLength is the fixed width of the leader's positional form.
const LeaderLength = 24

// Closed value sets for the enumerated leader positions.
var (
	recordStatusValues = []string{"a", "c", "d", "n", "p"}
	typeOfRecordValues = []string{
		"a", "c", "d", "e", "f", "g", "i", "j", "k", "m", "o", "p", "r", "t",
	}
	bibliographicLevelValues = []string{"a", "b", "c", "d", "i", "m", "s"}
)

// Leader is the 24-character fixed field at the head of every record.
// It describes the record's structure and processing parameters.
//
// A Leader is an immutable value; construct one with NewLeader or
// ParseLeader. Two leaders are equal under == iff every position is
// equal.
type Leader struct {
	recordLength          int
	recordStatus          string
	typeOfRecord          string
	bibliographicLevel    string
	controlType           string
	characterEncoding     string
	indicatorCount        int
	subfieldCodeCount     int
	baseAddress           int
	encodingLevel         string
	descriptiveCataloging string
	multipartLevel        string
	entryMap              string
}

// LeaderParams carries the positional values for NewLeader.
// Empty one-character fields default to a space; an empty EntryMap
// defaults to "4500".
type LeaderParams struct {
	RecordLength          int    // positions 00-04
	RecordStatus          string // position 05
	TypeOfRecord          string // position 06
	BibliographicLevel    string // position 07
	ControlType           string // position 08
	CharacterEncoding     string // position 09
	IndicatorCount        int    // position 10
	SubfieldCodeCount     int    // position 11
	BaseAddress           int    // positions 12-16
	EncodingLevel         string // position 17
	DescriptiveCataloging string // position 18
	MultipartLevel        string // position 19
	EntryMap              string // positions 20-23
}

// NewLeader validates the given positional values and constructs a
// Leader. Enumerated positions outside their closed sets, counts
// outside a single digit, and lengths that cannot be rendered in five
// digits all fail with a *ValidationError.
func NewLeader(p LeaderParams) (Leader, error) {
	if p.ControlType == "" {
		p.ControlType = " "
	}
	if p.EncodingLevel == "" {
		p.EncodingLevel = " "
	}
	if p.DescriptiveCataloging == "" {
		p.DescriptiveCataloging = " "
	}
	if p.MultipartLevel == "" {
		p.MultipartLevel = " "
	}
	if p.EntryMap == "" {
		p.EntryMap = "4500"
	}

	if p.RecordLength < 0 || p.RecordLength > 99999 {
		return Leader{}, &ValidationError{
			Field: "record_length",
			Value: strconv.Itoa(p.RecordLength),
		}
	}
	if !contains(recordStatusValues, p.RecordStatus) {
		return Leader{}, &ValidationError{
			Field:   "record_status",
			Value:   p.RecordStatus,
			Allowed: recordStatusValues,
		}
	}
	if !contains(typeOfRecordValues, p.TypeOfRecord) {
		return Leader{}, &ValidationError{
			Field:   "type_of_record",
			Value:   p.TypeOfRecord,
			Allowed: typeOfRecordValues,
		}
	}
	if !contains(bibliographicLevelValues, p.BibliographicLevel) {
		return Leader{}, &ValidationError{
			Field:   "bibliographic_level",
			Value:   p.BibliographicLevel,
			Allowed: bibliographicLevelValues,
		}
	}
	for _, pos := range []struct {
		field string
		value string
	}{
		{"control_type", p.ControlType},
		{"character_encoding", p.CharacterEncoding},
		{"encoding_level", p.EncodingLevel},
		{"descriptive_cataloging", p.DescriptiveCataloging},
		{"multipart_level", p.MultipartLevel},
	} {
		if utf8.RuneCountInString(pos.value) != 1 {
			return Leader{}, &ValidationError{Field: pos.field, Value: pos.value}
		}
	}
	if p.IndicatorCount < 0 || p.IndicatorCount > 9 {
		return Leader{}, &ValidationError{
			Field: "indicator_count",
			Value: strconv.Itoa(p.IndicatorCount),
		}
	}
	if p.SubfieldCodeCount < 0 || p.SubfieldCodeCount > 9 {
		return Leader{}, &ValidationError{
			Field: "subfield_code_count",
			Value: strconv.Itoa(p.SubfieldCodeCount),
		}
	}
	if p.BaseAddress < 0 || p.BaseAddress > 99999 {
		return Leader{}, &ValidationError{
			Field: "base_address",
			Value: strconv.Itoa(p.BaseAddress),
		}
	}
	if utf8.RuneCountInString(p.EntryMap) != 4 {
		return Leader{}, &ValidationError{Field: "entry_map", Value: p.EntryMap}
	}

	return Leader{
		recordLength:          p.RecordLength,
		recordStatus:          p.RecordStatus,
		typeOfRecord:          p.TypeOfRecord,
		bibliographicLevel:    p.BibliographicLevel,
		controlType:           p.ControlType,
		characterEncoding:     p.CharacterEncoding,
		indicatorCount:        p.IndicatorCount,
		subfieldCodeCount:     p.SubfieldCodeCount,
		baseAddress:           p.BaseAddress,
		encodingLevel:         p.EncodingLevel,
		descriptiveCataloging: p.DescriptiveCataloging,
		multipartLevel:        p.MultipartLevel,
		entryMap:              p.EntryMap,
	}, nil
}

// ParseLeader parses the 24-character positional form of a leader.
// A string of any other length fails with a *LeaderLengthError; an
// invalid value at any position fails with a *ValidationError.
func ParseLeader(s string) (Leader, error) {
	runes := []rune(s)
	if len(runes) != LeaderLength {
		return Leader{}, &LeaderLengthError{Length: len(runes)}
	}

	recordLength, err := leaderInt(runes[0:5], "record_length")
	if err != nil {
		return Leader{}, err
	}
	indicatorCount, err := leaderInt(runes[10:11], "indicator_count")
	if err != nil {
		return Leader{}, err
	}
	subfieldCodeCount, err := leaderInt(runes[11:12], "subfield_code_count")
	if err != nil {
		return Leader{}, err
	}
	baseAddress, err := leaderInt(runes[12:17], "base_address")
	if err != nil {
		return Leader{}, err
	}

	return NewLeader(LeaderParams{
		RecordLength:          recordLength,
		RecordStatus:          string(runes[5]),
		TypeOfRecord:          string(runes[6]),
		BibliographicLevel:    string(runes[7]),
		ControlType:           string(runes[8]),
		CharacterEncoding:     string(runes[9]),
		IndicatorCount:        indicatorCount,
		SubfieldCodeCount:     subfieldCodeCount,
		BaseAddress:           baseAddress,
		EncodingLevel:         string(runes[17]),
		DescriptiveCataloging: string(runes[18]),
		MultipartLevel:        string(runes[19]),
		EntryMap:              string(runes[20:24]),
	})
}

// leaderInt parses a run of digit positions.
func leaderInt(runes []rune, field string) (int, error) {
	n, err := strconv.Atoi(string(runes))
	if err != nil || n < 0 {
		return 0, &ValidationError{Field: field, Value: string(runes)}
	}
	return n, nil
}

// String renders the leader in its 24-character positional form.
// ParseLeader(l.String()) == l for every valid leader.
func (l Leader) String() string {
	return fmt.Sprintf("%05d%s%s%s%s%s%d%d%05d%s%s%s%s",
		l.recordLength,
		l.recordStatus,
		l.typeOfRecord,
		l.bibliographicLevel,
		l.controlType,
		l.characterEncoding,
		l.indicatorCount,
		l.subfieldCodeCount,
		l.baseAddress,
		l.encodingLevel,
		l.descriptiveCataloging,
		l.multipartLevel,
		l.entryMap,
	)
}

// RecordLength returns the length of the entire record.
func (l Leader) RecordLength() int { return l.recordLength }

// RecordStatus returns the record status code.
func (l Leader) RecordStatus() string { return l.recordStatus }

// TypeOfRecord returns the type-of-record code.
func (l Leader) TypeOfRecord() string { return l.typeOfRecord }

// BibliographicLevel returns the bibliographic level code.
func (l Leader) BibliographicLevel() string { return l.bibliographicLevel }

// ControlType returns the type-of-control code.
func (l Leader) ControlType() string { return l.controlType }

// CharacterEncoding returns the character encoding scheme code.
func (l Leader) CharacterEncoding() string { return l.characterEncoding }

// IndicatorCount returns the number of indicator positions.
func (l Leader) IndicatorCount() int { return l.indicatorCount }

// SubfieldCodeCount returns the number of subfield code positions.
func (l Leader) SubfieldCodeCount() int { return l.subfieldCodeCount }

// BaseAddress returns the starting position of the data portion.
func (l Leader) BaseAddress() int { return l.baseAddress }

// EncodingLevel returns the encoding level code.
func (l Leader) EncodingLevel() string { return l.encodingLevel }

// DescriptiveCataloging returns the descriptive cataloging form code.
func (l Leader) DescriptiveCataloging() string { return l.descriptiveCataloging }

// MultipartLevel returns the multipart resource record level code.
func (l Leader) MultipartLevel() string { return l.multipartLevel }

// EntryMap returns the 4-character entry map.
func (l Leader) EntryMap() string { return l.entryMap }

// leaderJSON is the serialization surface of a Leader.
type leaderJSON struct {
	RecordLength          int    `json:"record_length"`
	RecordStatus          string `json:"record_status"`
	TypeOfRecord          string `json:"type_of_record"`
	BibliographicLevel    string `json:"bibliographic_level"`
	ControlType           string `json:"control_type"`
	CharacterEncoding     string `json:"character_encoding"`
	IndicatorCount        int    `json:"indicator_count"`
	SubfieldCodeCount     int    `json:"subfield_code_count"`
	BaseAddress           int    `json:"base_address"`
	EncodingLevel         string `json:"encoding_level"`
	DescriptiveCataloging string `json:"descriptive_cataloging"`
	MultipartLevel        string `json:"multipart_level"`
	EntryMap              string `json:"entry_map"`
}

func (l Leader) toJSON() leaderJSON {
	return leaderJSON{
		RecordLength:          l.recordLength,
		RecordStatus:          l.recordStatus,
		TypeOfRecord:          l.typeOfRecord,
		BibliographicLevel:    l.bibliographicLevel,
		ControlType:           l.controlType,
		CharacterEncoding:     l.characterEncoding,
		IndicatorCount:        l.indicatorCount,
		SubfieldCodeCount:     l.subfieldCodeCount,
		BaseAddress:           l.baseAddress,
		EncodingLevel:         l.encodingLevel,
		DescriptiveCataloging: l.descriptiveCataloging,
		MultipartLevel:        l.multipartLevel,
		EntryMap:              l.entryMap,
	}
}

// MarshalJSON implements json.Marshaler.
func (l Leader) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.toJSON())
}

// UnmarshalJSON implements json.Unmarshaler. The decoded values pass
// through the same validation as NewLeader.
func (l *Leader) UnmarshalJSON(data []byte) error {
	var j leaderJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	leader, err := NewLeader(LeaderParams(j))
	if err != nil {
		return err
	}
	*l = leader
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
