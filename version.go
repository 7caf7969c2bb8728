package kormarc

// Version is the library version.
const Version = "0.1.0"

// Format identifies a supported cataloging format edition.
type Format string

// Supported format editions.
const (
	// KORMARC2014 is the 2014 integrated KORMARC edition.
	KORMARC2014 Format = "KORMARC2014"
)

// String returns the format string.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if this is a supported format edition.
func (f Format) IsValid() bool {
	return f == KORMARC2014
}
