package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"complaint-dashboard/internal/catalog"
	"complaint-dashboard/internal/intake"
)

// Lifecycle states written to the status payload item.
const (
	StatusSent       = "Terkirim"
	StatusInProgress = "Dalam Pengerjaan / Pengecekan Petugas"
	StatusCompleted  = "Selesai"
)

// GeneratorConfig controls the synthetic data set.
type GeneratorConfig struct {
	Count  int
	Months int
	FormID int
	Seed   int64
	Now    time.Time
}

// Spellings as they show up in hand-typed forms.
var (
	staffSpellings = []string{
		"Ganang", "Agus", "Ali Muhson", "Virgie", "Bayu", "Adika",
		"dika", "Adi", "vi", "Virgie Dika", "Ganang, Agus", "Bayu & Adika", "Agus dan Ali Muhson",
	}
	unitSpellings = []string{
		"Poli Mata", "poli mata", "Poli  Mata lt 2", "Rekam Medis", "RM", "Poli Bedah", "IGD", "Radiologi",
		"Farmasi", "kasir", "Gizi", "Loket TPPRI", "Pojok JKN", "SIMRS", "laboratorium", "Parkiran", "Kantin",
	}
	reporters = []string{"Budi", "Siti", "Rina", "Joko", "Dewi", "Andi", "Wulan", "Hendra"}
)

// Generate returns cfg.Count records spread over the last cfg.Months months.
// About one record in ten belongs to another form.
func Generate(cfg GeneratorConfig) []intake.RawRecord {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Months <= 0 {
		cfg.Months = 1
	}
	if cfg.FormID == 0 {
		cfg.FormID = 3
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	tags := catalog.Default().FieldTags

	start := cfg.Now.AddDate(0, -cfg.Months, 0)
	span := cfg.Now.Sub(start)

	records := make([]intake.RawRecord, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		entered := start.Add(time.Duration(rng.Int63n(int64(span)))).Truncate(time.Second)

		// Response in minutes, heavy tailed around a few hours.
		response := time.Duration(weibullSample(rng, 0.9, 240)) * time.Minute
		pickedUp := entered.Add(time.Duration(rng.Int63n(int64(response) + 1)))
		done := entered.Add(response)

		rec := intake.RawRecord{
			ID:            int64(i + 1),
			FormID:        cfg.FormID,
			Petugas:       staffSpellings[rng.Intn(len(staffSpellings))],
			CreatedAt:     timePtr(entered),
			DatetimeMasuk: timePtr(entered),
			Status:        StatusSent,
		}
		if rng.Intn(10) == 0 {
			rec.FormID = cfg.FormID + 1
		}

		switch {
		case done.Before(cfg.Now) && rng.Float64() < 0.75:
			rec.DatetimePengerjaan = timePtr(pickedUp)
			rec.DatetimeSelesai = timePtr(done)
			rec.Status = StatusCompleted
		case pickedUp.Before(cfg.Now) && rng.Float64() < 0.6:
			rec.DatetimePengerjaan = timePtr(pickedUp)
			rec.Status = StatusInProgress
		}
		rec.IsPending = rec.Status != StatusCompleted && rng.Float64() < 0.15

		payloadStatus := rec.Status
		if rng.Float64() < 0.1 {
			payloadStatus = ""
		}
		rec.Payload = payload(tags, reporters[rng.Intn(len(reporters))], unitSpellings[rng.Intn(len(unitSpellings))], payloadStatus)

		records = append(records, rec)
	}
	return records
}

func payload(tags catalog.FieldTags, reporter, unit, status string) json.RawMessage {
	items := []map[string]any{
		{"name": tags.Reporter, "value": reporter},
		{"name": tags.Unit, "value": unit},
		{"name": "textarea-1709615800000-0", "value": "Keluhan pelayanan"},
	}
	if status != "" {
		items = append(items, map[string]any{"name": tags.Status, "value": status})
	}
	data, _ := json.Marshal([][]map[string]any{items})
	return data
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

func timePtr(t time.Time) *time.Time { return &t }

// Save writes records as JSON Lines to path, creating parent directories.
func Save(path string, records []intake.RawRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", r.ID, err)
		}
	}
	return w.Flush()
}
