package kormarc

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// BookInfo is the typed domain input the Builder assembles a Record
// from.
type BookInfo struct {
	// ISBN is the 13-digit ISBN, hyphens allowed.
	ISBN string

	// Title is the title statement.
	Title string

	// Author is the primary author name, if known.
	Author string

	// Publisher is the publishing body, if known.
	Publisher string

	// PubYear is the publication year ("YYYY" or "YYYYMM").
	PubYear string

	// Pages is the page count, 0 when unknown.
	Pages int

	// KDC is the Korean Decimal Classification number, if assigned.
	KDC string

	// Category is one of "book", "serial", "academic", "comic".
	// Anything else is treated as "book".
	Category string

	// Price in won, 0 when unknown.
	Price int

	// Description is a content summary, if any.
	Description string
}

// KDC main class to subject heading.
var kdcTopics = map[byte]string{
	'0': "General works",
	'1': "Philosophy",
	'2': "Religion",
	'3': "Social sciences",
	'4': "Natural sciences",
	'5': "Technology",
	'6': "Arts",
	'7': "Language",
	'8': "Literature",
	'9': "History",
}

var categoryBibLevels = map[string]string{
	"book":     "m",
	"serial":   "s",
	"academic": "a",
	"comic":    "c",
}

// Builder assembles Records from BookInfo. The control-number
// sequence is an atomic counter scoped to the Builder instance, so a
// single Builder is safe for concurrent use and two Builders never
// share hidden state.
type Builder struct {
	seq atomic.Int64

	// now is overridable for deterministic tests.
	now func() time.Time
}

// NewBuilder creates a Builder whose control-number sequence starts at
// seed. A seed of 0 uses the default starting sequence.
func NewBuilder(seed int64) *Builder {
	b := &Builder{now: time.Now}
	if seed <= 0 {
		seed = 100000
	}
	b.seq.Store(seed)
	return b
}

// NextControlNumber returns the next value of the control-number
// sequence, zero-padded to 12 digits.
func (b *Builder) NextControlNumber() string {
	n := b.seq.Add(1) - 1
	return fmt.Sprintf("%012d", n)
}

// Build assembles a Record from the given book information. The
// leader's record length and base address are computed from the
// assembled fields.
func (b *Builder) Build(book BookInfo) (*Record, error) {
	controlFields, err := b.buildControlFields(book)
	if err != nil {
		return nil, err
	}
	dataFields, err := b.buildDataFields(book)
	if err != nil {
		return nil, err
	}

	bibLevel, ok := categoryBibLevels[book.Category]
	if !ok {
		bibLevel = "m"
	}

	baseAddress := LeaderLength + 1
	recordLength := baseAddress
	for _, cf := range controlFields {
		recordLength += len(cf.Tag()) + len(cf.Data()) + 2
	}
	for _, df := range dataFields {
		recordLength += len(df.Tag()) + 4
		for _, sf := range df.Subfields() {
			recordLength += len(sf.Code()) + len(sf.Data()) + 1
		}
	}
	if recordLength > 99999 {
		recordLength = 99999
	}

	leader, err := NewLeader(LeaderParams{
		RecordLength:       recordLength,
		RecordStatus:       "a",
		TypeOfRecord:       "a",
		BibliographicLevel: bibLevel,
		ControlType:        "m",
		CharacterEncoding:  "a",
		IndicatorCount:     2,
		SubfieldCodeCount:  2,
		BaseAddress:        baseAddress,
	})
	if err != nil {
		return nil, err
	}

	return NewRecord(leader, controlFields, dataFields), nil
}

func (b *Builder) buildControlFields(book BookInfo) ([]ControlField, error) {
	now := b.now()

	typeCode := "a"
	if book.Category == "serial" {
		typeCode = "s"
	}
	pubYear := book.PubYear
	if len(pubYear) >= 4 {
		pubYear = pubYear[:4]
	} else {
		pubYear = now.Format("2006")
	}

	// 008: fixed-length data elements, padded to 40 characters.
	field008 := fmt.Sprintf("%ss%s    kor  %s", now.Format("060102"), pubYear, typeCode)
	if pad := 40 - len(field008); pad > 0 {
		field008 += strings.Repeat(" ", pad)
	}

	specs := []struct {
		tag  string
		data string
	}{
		{"001", b.NextControlNumber()},
		{"003", "NLK"},
		{"005", now.Format("20060102150405") + ".0"},
		{"008", field008},
	}

	fields := make([]ControlField, 0, len(specs))
	for _, spec := range specs {
		cf, err := NewControlField(spec.tag, spec.data)
		if err != nil {
			return nil, err
		}
		fields = append(fields, cf)
	}
	return fields, nil
}

func (b *Builder) buildDataFields(book BookInfo) ([]DataField, error) {
	var fields []DataField

	add := func(tag, ind1, ind2 string, subs ...Subfield) error {
		df, err := NewDataField(tag, ind1, ind2, subs)
		if err != nil {
			return err
		}
		fields = append(fields, df)
		return nil
	}
	sub := func(code, data string) Subfield {
		sf, _ := NewSubfield(code, data)
		return sf
	}

	// 040: cataloging agency.
	if err := add("040", " ", " ",
		sub("a", "NLK"),
		sub("b", "kor"),
		sub("c", "(NLK)"),
		sub("d", "NLK"),
		sub("e", "KORMARC2014"),
	); err != nil {
		return nil, err
	}

	// 020: ISBN.
	if err := add("020", " ", " ", sub("a", book.ISBN)); err != nil {
		return nil, err
	}

	// 100: main author entry.
	if book.Author != "" {
		if err := add("100", "1", " ", sub("a", book.Author)); err != nil {
			return nil, err
		}
	}

	// 245: title statement.
	if err := add("245", "0", " ", sub("a", book.Title)); err != nil {
		return nil, err
	}

	// 260: publication statement.
	var subs260 []Subfield
	if book.Publisher != "" {
		subs260 = append(subs260, sub("b", book.Publisher))
	}
	if book.PubYear != "" {
		subs260 = append(subs260, sub("c", "c"+book.PubYear))
	}
	if len(subs260) > 0 {
		df, err := NewDataField("260", " ", " ", subs260)
		if err != nil {
			return nil, err
		}
		fields = append(fields, df)
	}

	// 300: physical description.
	if book.Pages > 0 {
		if err := add("300", " ", " ", sub("a", fmt.Sprintf("%dp", book.Pages))); err != nil {
			return nil, err
		}
	}

	// 082: classification number (KDC).
	if book.KDC != "" {
		if err := add("082", "0", "4", sub("a", book.KDC)); err != nil {
			return nil, err
		}
	}

	// 650: subject heading from the KDC main class.
	if book.KDC != "" {
		if topic, ok := kdcTopics[book.KDC[0]]; ok {
			if err := add("650", " ", "8", sub("a", topic)); err != nil {
				return nil, err
			}
		}
	}

	return fields, nil
}
