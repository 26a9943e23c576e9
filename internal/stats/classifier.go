package stats

import (
	"regexp"
	"strings"

	"complaint-dashboard/internal/catalog"
)

const wordBoundary = `\b`

type keywordMatcher func(lowerName string) bool

type compiledUnit struct {
	name     string
	keywords []keywordMatcher
}

type compiledCategory struct {
	name  string
	units []compiledUnit
}

// Classifier assigns unit names to a (category, unit) bucket of the catalog taxonomy.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	categories []compiledCategory
	order      []string
	fallback   string
	statuses   []string
}

// NewClassifier compiles the catalog taxonomy. Keywords written as \bword\b
// match whole words only; every other keyword is a case-insensitive substring.
func NewClassifier(cat catalog.Catalog) *Classifier {
	c := &Classifier{
		order:    cat.CategoryNames(),
		fallback: cat.Fallback,
		statuses: append([]string(nil), cat.UnitStatuses...),
	}
	for _, category := range cat.Categories {
		cc := compiledCategory{name: category.Name}
		for _, u := range category.Units {
			cu := compiledUnit{name: u.Name}
			for _, kw := range u.Keywords {
				cu.keywords = append(cu.keywords, compileKeyword(kw))
			}
			cc.units = append(cc.units, cu)
		}
		c.categories = append(c.categories, cc)
	}
	return c
}

func compileKeyword(kw string) keywordMatcher {
	if len(kw) > 2*len(wordBoundary) && strings.HasPrefix(kw, wordBoundary) && strings.HasSuffix(kw, wordBoundary) {
		word := strings.TrimSuffix(strings.TrimPrefix(kw, wordBoundary), wordBoundary)
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		return re.MatchString
	}
	needle := strings.ToLower(kw)
	return func(lowerName string) bool {
		return strings.Contains(lowerName, needle)
	}
}

// Classify returns the first category and unit whose keywords match name,
// or the fallback bucket for both when nothing matches.
func (c *Classifier) Classify(name string) (category, unit string) {
	lower := strings.ToLower(name)
	for _, cat := range c.categories {
		for _, u := range cat.units {
			for _, match := range u.keywords {
				if match(lower) {
					return cat.name, u.name
				}
			}
		}
	}
	return c.fallback, c.fallback
}

// NewUnitCounts returns an empty breakdown with every category present.
func (c *Classifier) NewUnitCounts() *UnitCounts {
	uc := &UnitCounts{categories: make(map[string]*CategoryUnits, len(c.order))}
	for _, name := range c.order {
		uc.category(name)
	}
	return uc
}

// Count classifies name and increments its status counter. The unit row is
// created on first use with the fixed display statuses at zero.
func (c *Classifier) Count(uc *UnitCounts, name, status string) {
	category, unit := c.Classify(name)
	row := uc.category(category).unit(unit, c.statuses)
	row.Inc(status)
}

// UnitCounts is the category → unit → status breakdown, serialized in insertion order.
type UnitCounts struct {
	order      []string
	categories map[string]*CategoryUnits
}

func (uc *UnitCounts) category(name string) *CategoryUnits {
	if cu, ok := uc.categories[name]; ok {
		return cu
	}
	cu := &CategoryUnits{units: make(map[string]*Tally)}
	uc.order = append(uc.order, name)
	uc.categories[name] = cu
	return cu
}

// Categories returns the category names in output order.
func (uc *UnitCounts) Categories() []string {
	return append([]string(nil), uc.order...)
}

// Category returns the units of a category, or nil if it is absent.
func (uc *UnitCounts) Category(name string) *CategoryUnits {
	return uc.categories[name]
}

// Total sums every leaf counter.
func (uc *UnitCounts) Total() int {
	total := 0
	for _, cu := range uc.categories {
		for _, row := range cu.units {
			total += row.Total()
		}
	}
	return total
}

func (uc *UnitCounts) MarshalJSON() ([]byte, error) {
	return marshalOrdered(uc.order, func(k string) (any, error) { return uc.categories[k], nil })
}

// CategoryUnits maps unit names to their status counters.
type CategoryUnits struct {
	order []string
	units map[string]*Tally
}

func (cu *CategoryUnits) unit(name string, statuses []string) *Tally {
	if row, ok := cu.units[name]; ok {
		return row
	}
	row := NewTally(statuses...)
	cu.order = append(cu.order, name)
	cu.units[name] = row
	return row
}

// Units returns the unit names in first-seen order.
func (cu *CategoryUnits) Units() []string {
	return append([]string(nil), cu.order...)
}

// Unit returns the status counters of a unit, or nil if it was never counted.
func (cu *CategoryUnits) Unit(name string) *Tally {
	return cu.units[name]
}

func (cu *CategoryUnits) MarshalJSON() ([]byte, error) {
	return marshalOrdered(cu.order, func(k string) (any, error) { return cu.units[k], nil })
}
