package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"complaint-dashboard/internal/intake"

	"github.com/rs/zerolog/log"
)

const recordColumns = `id, form_id, json, petugas, created_at, datetime_masuk, datetime_pengerjaan, datetime_selesai, status, is_pending`

// FetchRecords returns the records of a form created within [start, end], bounds included.
func (s *Store) FetchRecords(ctx context.Context, formID int, start, end time.Time) ([]intake.RawRecord, error) {
	query := s.rebind(`SELECT ` + recordColumns + ` FROM form_values
		WHERE form_id = ? AND created_at BETWEEN ? AND ?
		ORDER BY created_at, id`)

	rows, err := s.db.QueryContext(ctx, query, formID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var out []intake.RawRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	log.Debug().Int("form_id", formID).Time("start", start).Time("end", end).Int("count", len(out)).Msg("Fetched records")
	return out, nil
}

// CreatedMonths lists the calendar months in loc that hold at least one record of the form.
func (s *Store) CreatedMonths(ctx context.Context, formID int, loc *time.Location) ([]intake.YearMonth, error) {
	query := s.rebind(`SELECT created_at FROM form_values WHERE form_id = ? AND created_at IS NOT NULL`)
	return s.months(ctx, query, loc, formID)
}

// EnteredMonths lists the calendar months in loc of every record's entry timestamp, across all forms.
func (s *Store) EnteredMonths(ctx context.Context, loc *time.Location) ([]intake.YearMonth, error) {
	return s.months(ctx, `SELECT datetime_masuk FROM form_values WHERE datetime_masuk IS NOT NULL`, loc)
}

// months buckets timestamps in Go so the month boundaries follow loc
// regardless of the database's own time zone handling.
func (s *Store) months(ctx context.Context, query string, loc *time.Location, args ...any) ([]intake.YearMonth, error) {
	if loc == nil {
		loc = time.UTC
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query months: %w", err)
	}
	defer rows.Close()

	seen := make(map[intake.YearMonth]bool)
	var out []intake.YearMonth
	for rows.Next() {
		var ts sql.NullTime
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("failed to scan timestamp: %w", err)
		}
		if !ts.Valid {
			continue
		}
		ym := intake.Of(ts.Time, loc)
		if !seen[ym] {
			seen[ym] = true
			out = append(out, ym)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read months: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (intake.RawRecord, error) {
	var (
		r                                   intake.RawRecord
		payload, petugas, status            sql.NullString
		created, masuk, pengerjaan, selesai sql.NullTime
	)
	if err := row.Scan(&r.ID, &r.FormID, &payload, &petugas, &created, &masuk, &pengerjaan, &selesai, &status, &r.IsPending); err != nil {
		return intake.RawRecord{}, err
	}
	if payload.Valid {
		r.Payload = []byte(payload.String)
	}
	r.Petugas = petugas.String
	r.Status = status.String
	r.CreatedAt = timePtr(created)
	r.DatetimeMasuk = timePtr(masuk)
	r.DatetimePengerjaan = timePtr(pengerjaan)
	r.DatetimeSelesai = timePtr(selesai)
	return r, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// InsertRecords writes records in one transaction. Records carrying an ID
// replace any existing row with that ID; the others get a fresh ID.
func (s *Store) InsertRecords(ctx context.Context, records []intake.RawRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	withID := s.rebind(`INSERT INTO form_values (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			form_id = excluded.form_id,
			json = excluded.json,
			petugas = excluded.petugas,
			created_at = excluded.created_at,
			datetime_masuk = excluded.datetime_masuk,
			datetime_pengerjaan = excluded.datetime_pengerjaan,
			datetime_selesai = excluded.datetime_selesai,
			status = excluded.status,
			is_pending = excluded.is_pending`)
	withoutID := s.rebind(`INSERT INTO form_values (form_id, json, petugas, created_at, datetime_masuk, datetime_pengerjaan, datetime_selesai, status, is_pending)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	explicitIDs := false
	for _, r := range records {
		args := []any{
			r.FormID, string(r.Payload), r.Petugas,
			nullTime(r.CreatedAt), nullTime(r.DatetimeMasuk), nullTime(r.DatetimePengerjaan), nullTime(r.DatetimeSelesai),
			r.Status, r.IsPending,
		}
		query := withoutID
		if r.ID > 0 {
			query = withID
			args = append([]any{r.ID}, args...)
			explicitIDs = true
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("failed to insert record %d: %w", r.ID, err)
		}
	}

	if explicitIDs && s.driver == DriverPostgres {
		// keep the serial sequence ahead of imported IDs
		if _, err := tx.ExecContext(ctx, `SELECT setval(pg_get_serial_sequence('form_values', 'id'), (SELECT COALESCE(MAX(id), 1) FROM form_values))`); err != nil {
			return 0, fmt.Errorf("failed to advance id sequence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit records: %w", err)
	}
	return len(records), nil
}
