package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"complaint-dashboard/cmd/seedgen/engine"
)

func main() {
	count := flag.Int("count", 500, "Number of records to generate")
	months := flag.Int("months", 6, "Number of past months to spread records over")
	formID := flag.Int("form", 3, "Form ID of the complaint intake form")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	out := flag.String("out", "./seed.jsonl", "Output JSON Lines file")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Count:  *count,
		Months: *months,
		FormID: *formID,
		Seed:   *seed,
		Now:    time.Now(),
	}

	fmt.Printf("Generating %d records over %d months to %s...\n", cfg.Count, cfg.Months, *out)

	records := engine.Generate(cfg)
	if err := engine.Save(*out, records); err != nil {
		fmt.Printf("Failed to save seed data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
