package stats

import (
	"fmt"
	"math"
	"time"
)

// NotAvailable is the formatted response time when it cannot be computed.
const NotAvailable = "N/A"

// ResponseTime is the elapsed time between entry and completion of a complaint.
type ResponseTime struct {
	Minutes   *int
	Formatted string
}

// ResponseTimeBetween returns the whole minutes from entered to completed.
// Out-of-order timestamps produce a negative value.
func ResponseTimeBetween(entered, completed *time.Time) ResponseTime {
	if entered == nil || completed == nil {
		return ResponseTime{Formatted: NotAvailable}
	}
	minutes := int(completed.Sub(*entered) / time.Minute)
	return ResponseTime{Minutes: &minutes, Formatted: FormatMinutes(minutes)}
}

// FormatMinutes renders a minute count as "{h} jam {m} menit", or "{m} menit" below one hour.
func FormatMinutes(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%d jam %d menit", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%d menit", minutes)
}

// Average is a mean response time together with its rendered text.
type Average struct {
	Minutes   float64 `json:"minutes"`
	Formatted string  `json:"formatted"`
}

func averageOf(values []int) Average {
	if len(values) == 0 {
		return Average{Minutes: 0, Formatted: FormatMinutes(0)}
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(len(values))
	return Average{
		Minutes:   math.Round(mean*100) / 100,
		Formatted: FormatMinutes(int(math.Round(mean))),
	}
}
