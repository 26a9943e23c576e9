package intake

import (
	"encoding/json"
	"fmt"
	"time"
)

// RawRecord is one submission of the intake form as persisted by the store.
// The core never mutates it.
type RawRecord struct {
	ID                 int64           `json:"id"`
	FormID             int             `json:"form_id"`
	Payload            json.RawMessage `json:"json"`
	Petugas            string          `json:"petugas"`
	CreatedAt          *time.Time      `json:"created_at"`
	DatetimeMasuk      *time.Time      `json:"datetime_masuk"`
	DatetimePengerjaan *time.Time      `json:"datetime_pengerjaan"`
	DatetimeSelesai    *time.Time      `json:"datetime_selesai"`
	Status             string          `json:"status"`
	IsPending          bool            `json:"is_pending"`
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Of returns the calendar month t falls into in loc.
func Of(t time.Time, loc *time.Location) YearMonth {
	y, m, _ := t.In(loc).Date()
	return YearMonth{Year: y, Month: m}
}

// Key renders the month as YYYY-MM.
func (ym YearMonth) Key() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Before reports whether ym is an earlier month than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}
