package stats

import (
	"strings"

	"complaint-dashboard/internal/catalog"
)

const (
	// StatusCompleted is the free-text status of a finished complaint.
	StatusCompleted = "Selesai"

	statusPendingKey  = "pending"
	unitStatusPending = "Pending"
	staffSeparator    = ", "
)

// SummaryReport is the dashboard payload for one month.
type SummaryReport struct {
	TotalComplaints              int         `json:"totalComplaints"`
	StatusCounts                 *Tally      `json:"statusCounts"`
	PetugasCounts                *Tally      `json:"petugasCounts"`
	UnitCounts                   *UnitCounts `json:"unitCounts"`
	AverageResponseTime          Average     `json:"averageResponseTime"`
	AverageCompletedResponseTime Average     `json:"averageCompletedResponseTime"`
	SelectedMonth                string      `json:"selectedMonth"`
	AvailableMonths              MonthLabels `json:"availableMonths"`
}

// Aggregator reduces normalized records to the dashboard counters.
// Every reduction reads the records without modifying them.
type Aggregator struct {
	classifier *Classifier
	roster     []string
}

func NewAggregator(cat catalog.Catalog) *Aggregator {
	return &Aggregator{
		classifier: NewClassifier(cat),
		roster:     append([]string(nil), cat.StaffRoster...),
	}
}

// Summarize fills every field of the report except the month selection and listing.
func (a *Aggregator) Summarize(records []NormalizedRecord) SummaryReport {
	return SummaryReport{
		TotalComplaints:              len(records),
		StatusCounts:                 StatusCounts(records),
		PetugasCounts:                StaffCounts(records, a.roster),
		UnitCounts:                   a.UnitCounts(records),
		AverageResponseTime:          AverageResponseTime(records),
		AverageCompletedResponseTime: AverageCompletedResponseTime(records),
	}
}

// StatusCounts counts pending records as "pending" or "Selesai" and every
// other record under its own status text.
func StatusCounts(records []NormalizedRecord) *Tally {
	t := NewTally(statusPendingKey, StatusCompleted)
	for _, r := range records {
		if r.IsPending {
			if r.Status == StatusCompleted {
				t.Inc(StatusCompleted)
			} else {
				t.Inc(statusPendingKey)
			}
			continue
		}
		t.Inc(r.Status)
	}
	return t
}

// StaffCounts counts, per roster member, the records naming them at least once.
// Names outside the roster are ignored and members with no records are omitted.
func StaffCounts(records []NormalizedRecord, roster []string) *Tally {
	t := NewTally(roster...)
	for _, r := range records {
		seen := make(map[string]bool)
		for _, name := range strings.Split(r.StaffNames, staffSeparator) {
			if seen[name] || !t.Has(name) {
				continue
			}
			seen[name] = true
			t.Inc(name)
		}
	}
	return t.NonZero()
}

// UnitCounts breaks the records down by category, unit and display status.
func (a *Aggregator) UnitCounts(records []NormalizedRecord) *UnitCounts {
	uc := a.classifier.NewUnitCounts()
	for _, r := range records {
		a.classifier.Count(uc, r.UnitName, unitStatus(r))
	}
	return uc
}

func unitStatus(r NormalizedRecord) string {
	if !r.IsPending {
		return r.Status
	}
	if r.Status == StatusCompleted {
		return StatusCompleted
	}
	return unitStatusPending
}

// AverageResponseTime averages every record with a response time, including zero and negative ones.
func AverageResponseTime(records []NormalizedRecord) Average {
	var values []int
	for _, r := range records {
		if r.ResponseTimeMinutes != nil {
			values = append(values, *r.ResponseTimeMinutes)
		}
	}
	return averageOf(values)
}

// AverageCompletedResponseTime averages the completed records only.
func AverageCompletedResponseTime(records []NormalizedRecord) Average {
	var values []int
	for _, r := range records {
		if r.Status == StatusCompleted && r.ResponseTimeMinutes != nil {
			values = append(values, *r.ResponseTimeMinutes)
		}
	}
	if len(values) == 0 {
		return Average{Minutes: 0, Formatted: NotAvailable}
	}
	return averageOf(values)
}
