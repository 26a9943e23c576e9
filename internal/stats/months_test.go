package stats

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"complaint-dashboard/internal/intake"
)

func ym(year int, month time.Month) intake.YearMonth {
	return intake.YearMonth{Year: year, Month: month}
}

func TestNewMonthWindow(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)

	tests := []struct {
		name  string
		month intake.YearMonth
		start time.Time
		end   time.Time
	}{
		{
			name:  "leap february",
			month: ym(2024, time.February),
			start: time.Date(2024, 2, 1, 0, 0, 0, 0, loc),
			end:   time.Date(2024, 2, 29, 23, 59, 59, 999999999, loc),
		},
		{
			name:  "december rolls year",
			month: ym(2023, time.December),
			start: time.Date(2023, 12, 1, 0, 0, 0, 0, loc),
			end:   time.Date(2023, 12, 31, 23, 59, 59, 999999999, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewMonthWindow(tt.month, loc)
			if !w.Start.Equal(tt.start) {
				t.Errorf("Start = %v, want %v", w.Start, tt.start)
			}
			if !w.End.Equal(tt.end) {
				t.Errorf("End = %v, want %v", w.End, tt.end)
			}
			if !w.Contains(tt.start) || !w.Contains(tt.end) {
				t.Error("window must include both bounds")
			}
			if w.Contains(tt.end.Add(time.Nanosecond)) {
				t.Error("window must exclude the next month")
			}
		})
	}
}

func TestAvailableMonths(t *testing.T) {
	months := []intake.YearMonth{
		ym(2023, time.November),
		ym(2024, time.February),
		ym(2023, time.November),
		ym(2024, time.January),
	}

	got := AvailableMonths(months, LocaleEnglish)
	want := MonthLabels{
		{Key: "2024-02", Label: "February 2024"},
		{Key: "2024-01", Label: "January 2024"},
		{Key: "2023-11", Label: "November 2023"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableMonths() = %v, want %v", got, want)
	}

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	wantJSON := `{"2024-02":"February 2024","2024-01":"January 2024","2023-11":"November 2023"}`
	if string(data) != wantJSON {
		t.Errorf("json = %s, want %s", data, wantJSON)
	}
}

func TestAvailableMonths_Indonesian(t *testing.T) {
	got := AvailableMonths([]intake.YearMonth{ym(2024, time.August)}, LocaleIndonesian)
	if len(got) != 1 || got[0].Label != "Agustus 2024" {
		t.Errorf("AvailableMonths() = %v", got)
	}
}

func TestAvailableMonths_EmptyMarshalsToObject(t *testing.T) {
	data, err := json.Marshal(AvailableMonths(nil, LocaleEnglish))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("json = %s, want {}", data)
	}
}

func TestAvailableDates(t *testing.T) {
	months := []intake.YearMonth{
		ym(2023, time.March),
		ym(2024, time.May),
		ym(2024, time.January),
		ym(2023, time.December),
		ym(2024, time.May),
	}

	got := AvailableDates(months)
	want := []string{"2024-01", "2024-05", "2023-03", "2023-12"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableDates() = %v, want %v", got, want)
	}

	if empty := AvailableDates(nil); empty == nil || len(empty) != 0 {
		t.Errorf("AvailableDates(nil) = %#v, want empty non-nil slice", empty)
	}
}
