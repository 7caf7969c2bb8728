// Package toon generates, parses, and validates TOON identifiers:
// time-ordered, typed, Base32-encoded record identifiers of the form
// <type-prefix>_<26-symbol payload>. The payload encodes a 48-bit
// millisecond timestamp followed by 80 bits of cryptographic
// randomness, so identifiers sharing a type prefix sort
// lexicographically in creation order.
package toon

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// payloadLength is the number of Base32 symbols in the payload.
	payloadLength = 26

	// timestampBytes + randomBytes make the 16-byte binary payload.
	timestampBytes = 6
	randomBytes    = 10

	timestampMask = (1 << 48) - 1
)

var (
	prefixPattern = regexp.MustCompile(`^[a-z]+(?:_[a-z]+)*$`)
	toonPattern   = regexp.MustCompile(`^([a-z]+(?:_[a-z]+)*)_([0-9a-hjkmnp-tv-z]{26})$`)
)

// ValidationError reports malformed TOON or Base32 input. It is fatal
// to the call that produced it.
type ValidationError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid TOON input %q: %s", e.Input, e.Reason)
}

// Info is the decoded form of a TOON identifier.
type Info struct {
	// Type is the whole type prefix (e.g. "kormarc_book").
	Type string

	// Subtype is every underscore-joined segment after the first
	// (e.g. "book"); empty for single-segment prefixes.
	Subtype string

	// ULID is the 26-symbol Base32 payload, canonical uppercase.
	ULID string

	// TimestampMS is the embedded millisecond Unix timestamp.
	TimestampMS int64

	// CreatedAt is TimestampMS as an absolute UTC instant.
	CreatedAt time.Time
}

// GenerateOption overrides a Generate input, solely for deterministic
// testing.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	timestampMS int64
	random      []byte
}

// WithTimestamp fixes the embedded timestamp to the given millisecond
// Unix time.
func WithTimestamp(timestampMS int64) GenerateOption {
	return func(c *generateConfig) {
		c.timestampMS = timestampMS
	}
}

// WithRandom fixes the 10-byte random payload.
func WithRandom(b []byte) GenerateOption {
	return func(c *generateConfig) {
		c.random = append([]byte(nil), b...)
	}
}

// Generate creates a TOON identifier for the given record type prefix.
// The timestamp defaults to the current time truncated to 48 bits; the
// random payload defaults to 10 cryptographically-random bytes.
func Generate(recordType string, opts ...GenerateOption) (string, error) {
	if !prefixPattern.MatchString(recordType) {
		return "", &ValidationError{Input: recordType, Reason: "malformed type prefix"}
	}

	cfg := generateConfig{timestampMS: -1}
	for _, opt := range opts {
		opt(&cfg)
	}

	ts := cfg.timestampMS
	if ts < 0 {
		ts = time.Now().UnixMilli()
	}
	ts &= timestampMask

	random := cfg.random
	if random == nil {
		random = make([]byte, randomBytes)
		if _, err := rand.Read(random); err != nil {
			return "", fmt.Errorf("reading random payload: %w", err)
		}
	}
	if len(random) != randomBytes {
		return "", &ValidationError{
			Input:  recordType,
			Reason: fmt.Sprintf("random payload must be %d bytes, got %d", randomBytes, len(random)),
		}
	}

	data := make([]byte, 0, timestampBytes+randomBytes)
	for shift := 40; shift >= 0; shift -= 8 {
		data = append(data, byte(ts>>shift))
	}
	data = append(data, random...)

	payload := EncodeBase32(data)[:payloadLength]
	return recordType + "_" + payload, nil
}

// Parse decodes a TOON identifier. Input is matched case-insensitively
// against the TOON pattern; a non-matching string fails with a
// *ValidationError.
func Parse(id string) (Info, error) {
	trimmed := strings.TrimSpace(id)

	m := toonPattern.FindStringSubmatch(strings.ToLower(trimmed))
	if m == nil {
		return Info{}, &ValidationError{Input: id, Reason: "does not match TOON pattern"}
	}
	prefix, ulid := m[1], m[2]

	decoded, err := DecodeBase32(ulid)
	if err != nil {
		return Info{}, err
	}
	// 26 symbols decode to 16 bytes plus padding bits; only the first
	// 16 bytes are payload.
	decoded = decoded[:timestampBytes+randomBytes]

	var ts int64
	for _, b := range decoded[:timestampBytes] {
		ts = ts<<8 | int64(b)
	}

	subtype := ""
	if i := strings.Index(prefix, "_"); i >= 0 {
		subtype = prefix[i+1:]
	}

	return Info{
		Type:        prefix,
		Subtype:     subtype,
		ULID:        strings.ToUpper(ulid),
		TimestampMS: ts,
		CreatedAt:   time.UnixMilli(ts).UTC(),
	}, nil
}

// Validate reports whether the identifier parses.
func Validate(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// ExtractTimestamp returns the identifier's creation instant.
func ExtractTimestamp(id string) (time.Time, error) {
	info, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return info.CreatedAt, nil
}
