package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"complaint-dashboard/internal/intake"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func tsPtr(year int, month time.Month, day, hour int) *time.Time {
	t := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "x"); err == nil {
		t.Error("expected an error for an unsupported driver")
	}
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	if got := pg.rebind("a = ? AND b BETWEEN ? AND ?"); got != "a = $1 AND b BETWEEN $2 AND $3" {
		t.Errorf("postgres rebind = %q", got)
	}
	lite := &Store{driver: DriverSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite rebind = %q", got)
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"data.db", "data.db?_time_format=sqlite"},
		{"file:data.db?cache=shared", "file:data.db?cache=shared&_time_format=sqlite"},
		{"data.db?_time_format=sqlite", "data.db?_time_format=sqlite"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFetchRecords_RangeAndForm(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	records := []intake.RawRecord{
		{ID: 1, FormID: 3, Payload: []byte(`[[{"name":"Status","value":"Selesai"}]]`), Petugas: "Adi", CreatedAt: tsPtr(2024, 3, 1, 0), DatetimeMasuk: tsPtr(2024, 3, 1, 0), DatetimeSelesai: tsPtr(2024, 3, 1, 2), Status: "Selesai"},
		{ID: 2, FormID: 3, CreatedAt: tsPtr(2024, 3, 31, 23), IsPending: true},
		{ID: 3, FormID: 3, CreatedAt: tsPtr(2024, 4, 1, 0)},
		{ID: 4, FormID: 9, CreatedAt: tsPtr(2024, 3, 15, 0)},
		{ID: 5, FormID: 3, CreatedAt: tsPtr(2024, 2, 29, 23)},
	}
	if n, err := s.InsertRecords(ctx, records); err != nil || n != len(records) {
		t.Fatalf("InsertRecords() = %d, %v", n, err)
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)

	got, err := s.FetchRecords(ctx, 3, start, end)
	if err != nil {
		t.Fatalf("FetchRecords() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("FetchRecords() returned ids %v", ids(got))
	}

	first := got[0]
	if first.Petugas != "Adi" || first.Status != "Selesai" || !strings.Contains(string(first.Payload), "Selesai") {
		t.Errorf("columns not round-tripped: %+v", first)
	}
	if first.DatetimeSelesai == nil || !first.DatetimeSelesai.Equal(*records[0].DatetimeSelesai) {
		t.Errorf("DatetimeSelesai = %v", first.DatetimeSelesai)
	}
	if first.DatetimePengerjaan != nil {
		t.Errorf("DatetimePengerjaan = %v, want nil", first.DatetimePengerjaan)
	}
	if !got[1].IsPending {
		t.Error("IsPending not round-tripped")
	}
}

func TestInsertRecords_ReplacesByID(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	rec := intake.RawRecord{ID: 10, FormID: 3, Status: "Terkirim", CreatedAt: tsPtr(2024, 5, 2, 0)}
	if _, err := s.InsertRecords(ctx, []intake.RawRecord{rec}); err != nil {
		t.Fatal(err)
	}
	rec.Status = "Selesai"
	if _, err := s.InsertRecords(ctx, []intake.RawRecord{rec, {FormID: 3, CreatedAt: tsPtr(2024, 5, 3, 0)}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.FetchRecords(ctx, 3, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != 10 || got[0].Status != "Selesai" {
		t.Errorf("record 10 not replaced: %+v", got[0])
	}
	if got[1].ID == 0 || got[1].ID == 10 {
		t.Errorf("record without id got id %d", got[1].ID)
	}
}

func TestMonthListings(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	records := []intake.RawRecord{
		{FormID: 3, CreatedAt: tsPtr(2024, 1, 31, 20), DatetimeMasuk: tsPtr(2023, 12, 5, 0)},
		{FormID: 3, CreatedAt: tsPtr(2024, 1, 10, 0), DatetimeMasuk: tsPtr(2024, 1, 10, 0)},
		{FormID: 3, CreatedAt: nil, DatetimeMasuk: nil},
		{FormID: 7, CreatedAt: tsPtr(2022, 6, 1, 0), DatetimeMasuk: tsPtr(2022, 6, 1, 0)},
	}
	if _, err := s.InsertRecords(ctx, records); err != nil {
		t.Fatal(err)
	}

	wib := time.FixedZone("WIB", 7*3600)
	created, err := s.CreatedMonths(ctx, 3, wib)
	if err != nil {
		t.Fatal(err)
	}
	// 2024-01-31 20:00 UTC is February in WIB
	want := map[string]bool{"2024-01": true, "2024-02": true}
	if len(created) != len(want) {
		t.Fatalf("CreatedMonths() = %v", created)
	}
	for _, m := range created {
		if !want[m.Key()] {
			t.Errorf("unexpected month %s", m.Key())
		}
	}

	entered, err := s.EnteredMonths(ctx, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if len(entered) != 3 {
		t.Errorf("EnteredMonths() = %v, want three distinct months across forms", entered)
	}
}

func TestImportJSONL(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	input := strings.Join([]string{
		`{"id":1,"form_id":3,"json":[[{"name":"Status","value":"Selesai"}]],"petugas":"Bayu","created_at":"2024-03-02T08:00:00Z","is_pending":false}`,
		``,
		`{not json}`,
		`{"id":2,"form_id":3,"json":"[[]]","created_at":"2024-03-03T08:00:00+07:00","status":"Terkirim"}`,
	}, "\n")

	res, err := s.ImportJSONL(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportJSONL() error: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 1 {
		t.Errorf("ImportJSONL() = %+v, want 2 imported and 1 skipped", res)
	}

	got, err := s.FetchRecords(ctx, 3, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Petugas != "Bayu" || got[1].Status != "Terkirim" {
		t.Errorf("imported records = %+v", got)
	}
}

func TestPing(t *testing.T) {
	s := openTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
	s.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping() on a closed store should fail")
	}
}

func ids(records []intake.RawRecord) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
