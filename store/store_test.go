package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	km "github.com/kormarc/validator"
	"github.com/kormarc/validator/parser"
)

const sampleDoc = `00714cam  2200205 a 4500
001 KMO201600001
020  |a9788936433598
040  |a211032|c211032|d211032
245 10|aTitle
260  |aSeoul|bPublisher|c2020
`

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "records.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(t *testing.T, controlNumber string) *km.Record {
	t.Helper()
	rec, err := parser.Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if controlNumber == "" {
		return rec
	}
	doc := "00714cam  2200205 a 4500\n001 " + controlNumber + "\n245 10|aTitle " + controlNumber
	rec, err = parser.Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return rec
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("Open(empty path) error = nil, want error")
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	rec := sampleRecord(t, "")

	if err := s.Save(ctx, "kormarc_book_01ARZ3NDEKTSV4RRFFQ69G5FAV", rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Get(ctx, "kormarc_book_01ARZ3NDEKTSV4RRFFQ69G5FAV")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !rec.Equal(got) {
		t.Errorf("Get() record mismatch:\nsaved:  %s\nloaded: %s", rec, got)
	}
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "kormarc_book_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestGetUsesCache(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	rec := sampleRecord(t, "")

	if err := s.Save(ctx, "id1", rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := s.Get(ctx, "id1"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	stats := s.CacheStats()
	if stats.Hits != 1 {
		t.Errorf("cache Hits = %d, want 1", stats.Hits)
	}
}

func TestSaveUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "id1", sampleRecord(t, "A1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	fp1, err := s.Fingerprint(ctx, "id1")
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}

	if err := s.Save(ctx, "id1", sampleRecord(t, "A2")); err != nil {
		t.Fatalf("Save(update) error = %v", err)
	}
	fp2, err := s.Fingerprint(ctx, "id1")
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}

	if fp1 == fp2 {
		t.Error("fingerprint unchanged after update, want new value")
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestFindByISBN(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "id1", sampleRecord(t, "")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, "id2", sampleRecord(t, "B1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	ids, err := s.FindByISBN(ctx, "9788936433598")
	if err != nil {
		t.Fatalf("FindByISBN() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != "id1" {
		t.Errorf("FindByISBN() = %v, want [id1]", ids)
	}
}

func TestLoadAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"id1", "id2", "id3"} {
		if err := s.Save(ctx, id, sampleRecord(t, id)); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}

	rows, err := s.LoadAll(ctx, 0)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("len(rows) = %d, want 3", len(rows))
	}
	for _, row := range rows {
		if _, err := km.RecordFromJSON(row.Data); err != nil {
			t.Errorf("row %s does not restore: %v", row.ID, err)
		}
	}

	limited, err := s.LoadAll(ctx, 2)
	if err != nil {
		t.Fatalf("LoadAll(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "id1", sampleRecord(t, "")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Delete(ctx, "id1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "id1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}
}

func TestRecordCacheEviction(t *testing.T) {
	c := newRecordCache(2)
	rec := sampleRecord(t, "")

	c.put("a", rec)
	c.put("b", rec)
	c.put("c", rec) // evicts a

	if _, ok := c.get("a"); ok {
		t.Error("get(a) = hit, want evicted")
	}
	if _, ok := c.get("b"); !ok {
		t.Error("get(b) = miss, want hit")
	}
	if c.len() != 2 {
		t.Errorf("len() = %d, want 2", c.len())
	}
}
