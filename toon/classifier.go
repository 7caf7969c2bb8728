package toon

import (
	km "github.com/kormarc/validator"
)

// Record type prefixes assigned by the classifier.
const (
	TypeBook     = "kormarc_book"
	TypeSerial   = "kormarc_serial"
	TypeAcademic = "kormarc_academic"
	TypeComic    = "kormarc_comic"
	TypeUnknown  = "kormarc_unknown"
)

// RecordType classifies a record into a TOON type prefix from its
// leader's bibliographic level. A record with no 008 control field is
// always unknown.
func RecordType(rec *km.Record) string {
	if rec == nil {
		return TypeUnknown
	}
	if _, ok := rec.ControlField("008"); !ok {
		return TypeUnknown
	}

	switch rec.Leader().BibliographicLevel() {
	case "m":
		return TypeBook
	case "s":
		return TypeSerial
	case "a":
		// Monographic component part: academic articles and the like.
		return TypeAcademic
	case "c", "d":
		// Collection / division level: comics and series volumes.
		return TypeComic
	default:
		return TypeUnknown
	}
}
