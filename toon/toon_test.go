package toon

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedRandom = []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A}

func TestGenerateShape(t *testing.T) {
	id, err := Generate(TypeBook)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.HasPrefix(id, "kormarc_book_") {
		t.Errorf("id = %q, want kormarc_book_ prefix", id)
	}
	payload := strings.TrimPrefix(id, "kormarc_book_")
	if len(payload) != 26 {
		t.Errorf("payload length = %d, want 26", len(payload))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	ts := time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC).UnixMilli()

	a, err := Generate(TypeBook, WithTimestamp(ts), WithRandom(fixedRandom))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := Generate(TypeBook, WithTimestamp(ts), WithRandom(fixedRandom))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if a != b {
		t.Errorf("deterministic ids differ: %q vs %q", a, b)
	}
}

func TestGenerateTimeOrdering(t *testing.T) {
	base := time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC).UnixMilli()

	earlier, err := Generate(TypeBook, WithTimestamp(base), WithRandom(fixedRandom))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	later, err := Generate(TypeBook, WithTimestamp(base+1), WithRandom(fixedRandom))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !(earlier < later) {
		t.Errorf("ordering broken: %q !< %q", earlier, later)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	var verr *ValidationError

	if _, err := Generate("Kormarc-Book"); !errors.As(err, &verr) {
		t.Errorf("Generate(bad prefix) error = %v, want *ValidationError", err)
	}
	if _, err := Generate(TypeBook, WithRandom([]byte{1, 2, 3})); !errors.As(err, &verr) {
		t.Errorf("Generate(short random) error = %v, want *ValidationError", err)
	}
}

func TestParseRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC).UnixMilli()

	id, err := Generate(TypeBook, WithTimestamp(ts), WithRandom(fixedRandom))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	info, err := Parse(id)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", id, err)
	}
	if info.Type != "kormarc_book" {
		t.Errorf("Type = %q, want kormarc_book", info.Type)
	}
	if info.Subtype != "book" {
		t.Errorf("Subtype = %q, want book", info.Subtype)
	}
	if info.TimestampMS != ts {
		t.Errorf("TimestampMS = %d, want %d", info.TimestampMS, ts)
	}
	if !info.CreatedAt.Equal(time.UnixMilli(ts)) {
		t.Errorf("CreatedAt = %v, want %v", info.CreatedAt, time.UnixMilli(ts).UTC())
	}
	if len(info.ULID) != 26 || info.ULID != strings.ToUpper(info.ULID) {
		t.Errorf("ULID = %q, want 26 uppercase symbols", info.ULID)
	}
}

func TestParseSingleSegmentPrefix(t *testing.T) {
	id, err := Generate("isbn")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	info, err := Parse(id)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", id, err)
	}
	if info.Type != "isbn" || info.Subtype != "" {
		t.Errorf("Type/Subtype = %q/%q, want isbn/empty", info.Type, info.Subtype)
	}
}

func TestParseNormalizesInput(t *testing.T) {
	ts := time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC).UnixMilli()
	id, err := Generate(TypeBook, WithTimestamp(ts), WithRandom(fixedRandom))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	loud, err := Parse("  " + strings.ToUpper(id) + "  ")
	if err != nil {
		t.Fatalf("Parse(uppercase) error = %v", err)
	}
	if loud.TimestampMS != ts {
		t.Errorf("TimestampMS = %d, want %d", loud.TimestampMS, ts)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"kormarc_book",
		"kormarc_book_short",
		"KORMARC!_00000000000000000000000000",
		"kormarc_book_0000000000000000000000000u",
	}
	for _, id := range bad {
		if _, err := Parse(id); err == nil {
			t.Errorf("Parse(%q) = nil error, want failure", id)
		}
	}
}

func TestValidate(t *testing.T) {
	id, err := Generate(TypeSerial)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !Validate(id) {
		t.Errorf("Validate(%q) = false, want true", id)
	}
	if Validate("not a toon") {
		t.Error("Validate(garbage) = true, want false")
	}
}

func TestExtractTimestamp(t *testing.T) {
	ts := time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC).UnixMilli()
	id, err := Generate(TypeBook, WithTimestamp(ts))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, err := ExtractTimestamp(id)
	if err != nil {
		t.Fatalf("ExtractTimestamp() error = %v", err)
	}
	if !got.Equal(time.UnixMilli(ts)) {
		t.Errorf("ExtractTimestamp() = %v, want %v", got, time.UnixMilli(ts).UTC())
	}

	if _, err := ExtractTimestamp("bogus"); err == nil {
		t.Error("ExtractTimestamp(bogus) = nil error, want failure")
	}
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Generate(TypeBook); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	id, err := Generate(TypeBook)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(id); err != nil {
			b.Fatal(err)
		}
	}
}
