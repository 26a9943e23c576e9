package catalog

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// FallbackBucket is the category and unit used when no keyword matches.
const FallbackBucket = "Lainnya"

// FieldTags names the payload items that carry the semantic fields of an intake form.
type FieldTags struct {
	Reporter string `yaml:"reporter"`
	Unit     string `yaml:"unit"`
	Status   string `yaml:"status"`
}

// Unit is a named organizational sub-division matched via its keyword list.
type Unit struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Category groups units. Order matters: the first matching unit wins.
type Category struct {
	Name  string `yaml:"name"`
	Units []Unit `yaml:"units"`
}

// UnitRule rewrites any unit text matching Pattern to a fixed display name.
type UnitRule struct {
	Pattern string `yaml:"pattern"`
	Display string `yaml:"display"`
}

// Catalog is the static lookup configuration shared by the normalizer and the classifier.
// It is built once at start-up and treated as read-only afterwards.
type Catalog struct {
	FieldTags    FieldTags         `yaml:"field_tags"`
	StaffAliases map[string]string `yaml:"staff_aliases"`
	StaffRoster  []string          `yaml:"staff_roster"`
	UnitRules    []UnitRule        `yaml:"unit_rules"`
	Categories   []Category        `yaml:"categories"`
	Fallback     string            `yaml:"fallback"`
	UnitStatuses []string          `yaml:"unit_statuses"`
}

// Default returns the catalog the dashboard ships with.
func Default() Catalog {
	return Catalog{
		FieldTags: FieldTags{
			Reporter: "text-1709615631557-0",
			Unit:     "text-1709615712000-0",
			Status:   "Status",
		},
		StaffAliases: map[string]string{
			"Adi":             "Adika",
			"Adika Wicaksana": "Adika",
			"Adikaka":         "Adika",
			"adikaka":         "Adika",
			"dika":            "Adika",
			"Dika":            "Adika",
			"dikq":            "Adika",
			"Dikq":            "Adika",
			"AAdika":          "Adika",
			"virgie":          "Virgie",
			"Vi":              "Virgie",
			"vi":              "Virgie",
			"Virgie Dika":     "Virgie, Adika",
			"Virgie dikq":     "Virgie, Adika",
		},
		StaffRoster: []string{"Ganang", "Agus", "Ali Muhson", "Virgie", "Bayu", "Adika"},
		UnitRules: []UnitRule{
			{Pattern: `(?i)\bpoli\s*mata`, Display: "Poli Mata"},
		},
		Categories: []Category{
			{
				Name: "Klinis",
				Units: []Unit{
					{Name: "Rekam Medis", Keywords: []string{"rekam medis", `\brm\b`}},
					{Name: "Poli Mata", Keywords: []string{"mata"}},
					{Name: "Poli Bedah", Keywords: []string{"bedah"}},
					{Name: "Poli Obgyn", Keywords: []string{"obgyn"}},
					{Name: "Poli THT", Keywords: []string{"tht"}},
					{Name: "Poli Orthopedi", Keywords: []string{"orthopedi", "ortopedi"}},
					{Name: "Poli Jantung", Keywords: []string{"jantung"}},
					{Name: "Poli Gigi", Keywords: []string{"gigi"}},
					{Name: "ICU", Keywords: []string{"icu"}},
					{Name: "Radiologi", Keywords: []string{"radiologi"}},
					{Name: "Perinatologi", Keywords: []string{"perinatologi", "perina"}},
					{Name: "Rehabilitasi Medik", Keywords: []string{"rehabilitasi medik"}},
					{Name: "IGD", Keywords: []string{"igd"}},
				},
			},
			{
				Name: "Non-Klinis",
				Units: []Unit{
					{Name: "Farmasi", Keywords: []string{"farmasi"}},
					{Name: "Kesehatan Lingkungan", Keywords: []string{"kesehatan lingkungan", "kesling"}},
					{Name: "IBS", Keywords: []string{"ibs"}},
					{Name: "Litbang", Keywords: []string{"litbang", "ukm litbang"}},
					{Name: "Ukm", Keywords: []string{"ukm"}},
					{Name: "Laboratorium & Pelayanan Darah", Keywords: []string{"laboratorium & pelayanan darah", "laboratorium"}},
					{Name: "Akreditasi", Keywords: []string{"akreditasi"}},
					{Name: "Kasir", Keywords: []string{"kasir"}},
					{Name: "Anggrek", Keywords: []string{"anggrek", "unit anggrek"}},
					{Name: "Jamkes/Pojok JKN", Keywords: []string{"jamkes", "pojok jkn", "pojok jkn / loket bpjs", "jamkes / pojok jkn"}},
					{Name: "SIMRS", Keywords: []string{"simrs"}},
					{Name: "Loket TPPRI", Keywords: []string{"loket tppri", "tppri", "tppri timur"}},
					{Name: "Gizi", Keywords: []string{"gizi"}},
					{Name: "Ranap", Keywords: []string{"ranap"}},
					{Name: "Bugenvil", Keywords: []string{"bugenvil"}},
					{Name: "IFRS", Keywords: []string{"ifrs"}},
					{Name: "Veritatis voluptatem", Keywords: []string{"veritatis voluptatem"}},
					{Name: "IT", Keywords: []string{"it"}},
				},
			},
		},
		Fallback:     FallbackBucket,
		UnitStatuses: []string{"Terkirim", "Dalam Pengerjaan / Pengecekan Petugas", "Selesai", "Pending"},
	}
}

// Load returns the default catalog with every section present in the YAML file at path replacing its default.
func Load(path string) (Catalog, error) {
	cat := Default()
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	if override.FieldTags != (FieldTags{}) {
		cat.FieldTags = override.FieldTags
	}
	if override.StaffAliases != nil {
		cat.StaffAliases = override.StaffAliases
	}
	if override.StaffRoster != nil {
		cat.StaffRoster = override.StaffRoster
	}
	if override.UnitRules != nil {
		cat.UnitRules = override.UnitRules
	}
	if override.Categories != nil {
		cat.Categories = override.Categories
	}
	if override.Fallback != "" {
		cat.Fallback = override.Fallback
	}
	if override.UnitStatuses != nil {
		cat.UnitStatuses = override.UnitStatuses
	}

	if err := cat.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return cat, nil
}

// Validate reports structural problems that would make classification ambiguous or impossible.
func (c Catalog) Validate() error {
	if c.Fallback == "" {
		return fmt.Errorf("fallback bucket name is empty")
	}
	seen := make(map[string]bool)
	for _, cat := range c.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return fmt.Errorf("category with empty name")
		}
		if seen[name] {
			return fmt.Errorf("duplicate category %q", name)
		}
		seen[name] = true
		for _, u := range cat.Units {
			if strings.TrimSpace(u.Name) == "" {
				return fmt.Errorf("unit with empty name in category %q", name)
			}
			if len(u.Keywords) == 0 {
				return fmt.Errorf("unit %q in category %q has no keywords", u.Name, name)
			}
		}
	}
	for _, r := range c.UnitRules {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("unit rule %q: %w", r.Pattern, err)
		}
	}
	return nil
}

// CategoryNames lists the categories in declared order followed by the fallback bucket.
func (c Catalog) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories)+1)
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	for _, n := range names {
		if n == c.Fallback {
			return names
		}
	}
	return append(names, c.Fallback)
}
