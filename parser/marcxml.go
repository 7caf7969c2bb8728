package parser

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	km "github.com/kormarc/validator"
)

// MARCXMLNamespace is the MARC21 slim schema namespace shared by
// KORMARC XML exchange files.
const MARCXMLNamespace = "http://www.loc.gov/MARC21/slim"

// Precompiled queries for the record element tree. Namespace prefixes
// are ignored so both prefixed and default-namespace documents load.
var (
	recordQuery       = xpath.MustCompile("//*[local-name()='record']")
	leaderQuery       = xpath.MustCompile("*[local-name()='leader']")
	controlFieldQuery = xpath.MustCompile("*[local-name()='controlfield']")
	dataFieldQuery    = xpath.MustCompile("*[local-name()='datafield']")
	subfieldQuery     = xpath.MustCompile("*[local-name()='subfield']")
)

type marcxmlSubfield struct {
	Code string `xml:"code,attr"`
	Data string `xml:",chardata"`
}

type marcxmlControlField struct {
	Tag  string `xml:"tag,attr"`
	Data string `xml:",chardata"`
}

type marcxmlDataField struct {
	Tag       string            `xml:"tag,attr"`
	Ind1      string            `xml:"ind1,attr"`
	Ind2      string            `xml:"ind2,attr"`
	Subfields []marcxmlSubfield `xml:"subfield"`
}

type marcxmlRecord struct {
	XMLName       xml.Name              `xml:"record"`
	Namespace     string                `xml:"xmlns,attr"`
	Leader        string                `xml:"leader"`
	ControlFields []marcxmlControlField `xml:"controlfield"`
	DataFields    []marcxmlDataField    `xml:"datafield"`
}

// MarshalXML serializes a record as a standalone MARCXML document.
func MarshalXML(rec *km.Record) ([]byte, error) {
	if rec == nil {
		return nil, &km.ParseError{Msg: "cannot marshal nil record"}
	}

	out := marcxmlRecord{
		Namespace: MARCXMLNamespace,
		Leader:    rec.Leader().String(),
	}
	for _, cf := range rec.ControlFields() {
		out.ControlFields = append(out.ControlFields, marcxmlControlField{
			Tag:  cf.Tag(),
			Data: cf.Data(),
		})
	}
	for _, df := range rec.DataFields() {
		field := marcxmlDataField{
			Tag:  df.Tag(),
			Ind1: df.Indicator1(),
			Ind2: df.Indicator2(),
		}
		for _, sf := range df.Subfields() {
			field.Subfields = append(field.Subfields, marcxmlSubfield{
				Code: sf.Code(),
				Data: sf.Data(),
			})
		}
		out.DataFields = append(out.DataFields, field)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, &km.ParseError{Msg: "failed to encode MARCXML", Err: err}
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ParseXML reads the first record element from a MARCXML document.
func ParseXML(r io.Reader) (*km.Record, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &km.ParseError{Msg: "failed to parse MARCXML", Err: err}
	}

	node := xmlquery.QuerySelector(root, recordQuery)
	if node == nil {
		return nil, &km.ParseError{Msg: "no record element found"}
	}
	return recordFromNode(node)
}

// ParseXMLCollection reads every record element from a MARCXML
// document, typically a collection export. A document with no records
// yields an empty slice.
func ParseXMLCollection(r io.Reader) ([]*km.Record, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &km.ParseError{Msg: "failed to parse MARCXML", Err: err}
	}

	var records []*km.Record
	for _, node := range xmlquery.QuerySelectorAll(root, recordQuery) {
		rec, err := recordFromNode(node)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseXMLBytes parses a MARCXML document held in memory.
func ParseXMLBytes(data []byte) (*km.Record, error) {
	return ParseXML(bytes.NewReader(data))
}

func recordFromNode(node *xmlquery.Node) (*km.Record, error) {
	leaderNode := xmlquery.QuerySelector(node, leaderQuery)
	if leaderNode == nil {
		return nil, &km.ParseError{Msg: "record element has no leader"}
	}
	leader, err := km.ParseLeader(strings.TrimSpace(leaderNode.InnerText()))
	if err != nil {
		return nil, &km.ParseError{Msg: "failed to parse leader", Err: err}
	}

	var controlFields []km.ControlField
	for _, n := range xmlquery.QuerySelectorAll(node, controlFieldQuery) {
		cf, err := km.NewControlField(n.SelectAttr("tag"), n.InnerText())
		if err != nil {
			return nil, &km.ParseError{Msg: "failed to parse field", Tag: n.SelectAttr("tag"), Err: err}
		}
		controlFields = append(controlFields, cf)
	}

	var dataFields []km.DataField
	for _, n := range xmlquery.QuerySelectorAll(node, dataFieldQuery) {
		tag := n.SelectAttr("tag")
		var subfields []km.Subfield
		for _, sn := range xmlquery.QuerySelectorAll(n, subfieldQuery) {
			sf, err := km.NewSubfield(sn.SelectAttr("code"), sn.InnerText())
			if err != nil {
				return nil, &km.ParseError{Msg: "failed to parse field", Tag: tag, Err: err}
			}
			subfields = append(subfields, sf)
		}
		df, err := km.NewDataField(tag, indicatorAttr(n, "ind1"), indicatorAttr(n, "ind2"), subfields)
		if err != nil {
			return nil, &km.ParseError{Msg: "failed to parse field", Tag: tag, Err: err}
		}
		dataFields = append(dataFields, df)
	}

	return km.NewRecord(leader, controlFields, dataFields), nil
}

// indicatorAttr reads an indicator attribute, defaulting absent or
// empty values to a single space.
func indicatorAttr(n *xmlquery.Node, name string) string {
	if v := n.SelectAttr(name); v != "" {
		return v
	}
	return " "
}
