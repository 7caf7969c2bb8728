// Package parser turns line-oriented KORMARC text into Records.
//
// The grammar is deliberately permissive: it ingests scraped catalog
// data, so tagless lines are skipped and a missing subfield delimiter
// falls back to a single implicit subfield. WithStrict turns the
// permissive paths into parse errors.
package parser

import (
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	km "github.com/kormarc/validator"
)

// Delimiter separates subfields within a data field line.
const Delimiter = '|'

// Option configures a Parser.
type Option func(*Parser)

// WithStrict rejects lines the permissive grammar would skip silently.
func WithStrict() Option {
	return func(p *Parser) {
		p.strict = true
	}
}

// Parser parses KORMARC documents. The zero value is a permissive
// parser; construct with New to apply options. Parsers are stateless
// and safe for concurrent use.
type Parser struct {
	strict bool
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a convenience wrapper using a default permissive Parser.
func Parse(text string) (*km.Record, error) {
	return New().Parse(text)
}

// ParseBytes decodes raw bytes as UTF-8 and parses the result. Invalid
// UTF-8 fails fast with a *ParseError.
func (p *Parser) ParseBytes(data []byte) (*km.Record, error) {
	if !utf8.Valid(data) {
		return nil, &km.ParseError{Msg: "failed to decode data as UTF-8"}
	}
	return p.Parse(string(data))
}

// ParseFile parses a KORMARC document read from a file.
func (p *Parser) ParseFile(path string) (*km.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.ParseBytes(data)
}

// Parse parses a KORMARC document in a single linear pass. The first
// non-empty trimmed line is the leader; each remaining non-empty line
// is "TAG CONTENT". Tags 001-009 are control fields; anything else is
// a data field whose content carries indicators and subfields.
func (p *Parser) Parse(text string) (*km.Record, error) {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, &km.ParseError{Msg: "empty record: no data to parse"}
	}

	leader, err := km.ParseLeader(lines[0])
	if err != nil {
		return nil, &km.ParseError{Msg: "failed to parse leader", Err: err}
	}

	var controlFields []km.ControlField
	var dataFields []km.DataField

	for _, line := range lines[1:] {
		tag, content, ok := splitTagLine(line)
		if !ok {
			if p.strict {
				return nil, &km.ParseError{Msg: "malformed field line " + strconv.Quote(line)}
			}
			continue
		}

		if n, numeric := tagNumber(tag); numeric && n <= 9 {
			cf, err := km.NewControlField(padTag(tag), content)
			if err != nil {
				return nil, &km.ParseError{Msg: "failed to parse field", Tag: tag, Err: err}
			}
			controlFields = append(controlFields, cf)
			continue
		}

		ind1, ind2, subfields, err := parseDataFieldContent(content)
		if err != nil {
			return nil, &km.ParseError{Msg: "failed to parse field", Tag: tag, Err: err}
		}
		df, err := km.NewDataField(padTag(tag), ind1, ind2, subfields)
		if err != nil {
			return nil, &km.ParseError{Msg: "failed to parse field", Tag: tag, Err: err}
		}
		dataFields = append(dataFields, df)
	}

	return km.NewRecord(leader, controlFields, dataFields), nil
}

// splitTagLine splits a field line into its tag token and content.
// Lines without both parts report ok=false and are the permissive
// grammar's silent skips.
func splitTagLine(line string) (tag, content string, ok bool) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return "", "", false
	}
	tag = line[:i]
	content = strings.TrimLeft(line[i:], " \t")
	if content == "" {
		return "", "", false
	}
	return tag, content, true
}

// parseDataFieldContent splits data field content into indicators and
// subfields. Digits and spaces before the first delimiter become up to
// two indicators (missing ones default to space); the remainder splits
// on the delimiter, each chunk contributing its first character as the
// subfield code. Content with no delimiter at all becomes a single
// implicit subfield coded "a".
func parseDataFieldContent(content string) (ind1, ind2 string, subfields []km.Subfield, err error) {
	ind1, ind2 = " ", " "

	pos := strings.IndexRune(content, Delimiter)
	if pos < 0 {
		if trimmed := strings.TrimSpace(content); trimmed != "" {
			sf, err := km.NewSubfield("a", trimmed)
			if err != nil {
				return "", "", nil, err
			}
			subfields = append(subfields, sf)
		}
		return ind1, ind2, subfields, nil
	}

	var indicators []string
	for _, c := range content[:pos] {
		if (c >= '0' && c <= '9') || c == ' ' {
			indicators = append(indicators, string(c))
		} else {
			break
		}
	}
	if len(indicators) > 0 {
		ind1 = indicators[0]
	}
	if len(indicators) > 1 {
		ind2 = indicators[1]
	}

	for _, chunk := range strings.Split(content[pos:], string(Delimiter)) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		runes := []rune(chunk)
		sf, err := km.NewSubfield(string(runes[0]), string(runes[1:]))
		if err != nil {
			return "", "", nil, err
		}
		subfields = append(subfields, sf)
	}

	return ind1, ind2, subfields, nil
}

// tagNumber parses a fully numeric tag token.
func tagNumber(tag string) (int, bool) {
	if tag == "" {
		return 0, false
	}
	for _, c := range tag {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tag)
	if err != nil {
		return 0, false
	}
	return n, true
}

// padTag zero-pads a tag token to three digits.
func padTag(tag string) string {
	for len(tag) < 3 {
		tag = "0" + tag
	}
	return tag
}
