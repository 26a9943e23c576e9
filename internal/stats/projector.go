package stats

import (
	"time"

	"complaint-dashboard/internal/catalog"
	"complaint-dashboard/internal/intake"
	"complaint-dashboard/internal/normalize"
)

// DateTimeLayout is how record timestamps are rendered.
const DateTimeLayout = "2006-01-02 15:04:05"

// NormalizedRecord is the cleaned-up view of one intake record used by every reduction.
type NormalizedRecord struct {
	ID                  int64   `json:"id"`
	ReporterName        string  `json:"reporterName"`
	StaffNames          string  `json:"staffNames"`
	CreatedAt           *string `json:"createdAt"`
	EnteredAt           *string `json:"enteredAt"`
	InProgressAt        *string `json:"inProgressAt"`
	CompletedAt         *string `json:"completedAt"`
	Status              string  `json:"status"`
	IsPending           bool    `json:"isPending"`
	UnitName            string  `json:"unitName"`
	ResponseTime        string  `json:"responseTime"`
	ResponseTimeMinutes *int    `json:"responseTimeMinutes"`
}

// Projector turns raw records into normalized records.
type Projector struct {
	tags  catalog.FieldTags
	names *normalize.Normalizer
	loc   *time.Location
}

// NewProjector builds a projector rendering timestamps in loc (UTC when nil).
func NewProjector(cat catalog.Catalog, names *normalize.Normalizer, loc *time.Location) *Projector {
	if loc == nil {
		loc = time.UTC
	}
	return &Projector{tags: cat.FieldTags, names: names, loc: loc}
}

// Project normalizes a single record. It never fails: malformed payloads
// fall back to empty fields.
func (p *Projector) Project(r intake.RawRecord) NormalizedRecord {
	fields := intake.ExtractPayload(r.Payload, p.tags)
	rt := ResponseTimeBetween(r.DatetimeMasuk, r.DatetimeSelesai)

	status := fields.StatusRaw
	if status == "" {
		status = r.Status
	}

	return NormalizedRecord{
		ID:                  r.ID,
		ReporterName:        fields.ReporterName,
		StaffNames:          p.names.Staff(r.Petugas),
		CreatedAt:           p.format(r.CreatedAt),
		EnteredAt:           p.format(r.DatetimeMasuk),
		InProgressAt:        p.format(r.DatetimePengerjaan),
		CompletedAt:         p.format(r.DatetimeSelesai),
		Status:              status,
		IsPending:           r.IsPending,
		UnitName:            p.names.Unit(fields.UnitNameRaw),
		ResponseTime:        rt.Formatted,
		ResponseTimeMinutes: rt.Minutes,
	}
}

// ProjectAll normalizes records preserving their order.
func (p *Projector) ProjectAll(records []intake.RawRecord) []NormalizedRecord {
	out := make([]NormalizedRecord, 0, len(records))
	for _, r := range records {
		out = append(out, p.Project(r))
	}
	return out
}

func (p *Projector) format(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.In(p.loc).Format(DateTimeLayout)
	return &s
}
