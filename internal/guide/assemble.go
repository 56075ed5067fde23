package guide

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/guestbites/guestbites/internal/classify"
	"github.com/guestbites/guestbites/internal/model"
)

// Assembler groups place records into buckets.
type Assembler struct {
	classifier *classify.Classifier
	sortByName bool
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithSortByName orders places alphabetically within each bucket instead of
// keeping provider order.
func WithSortByName(enabled bool) AssemblerOption {
	return func(a *Assembler) {
		a.sortByName = enabled
	}
}

// NewAssembler creates an Assembler. A nil classifier means the default rules.
func NewAssembler(c *classify.Classifier, opts ...AssemblerOption) *Assembler {
	if c == nil {
		c = classify.Default()
	}
	a := &Assembler{classifier: c}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Assemble builds a guide from records. Host picks and custom places are
// carried alongside the buckets and never merged with or deduplicated
// against provider records.
func (a *Assembler) Assemble(zip string, records []model.PlaceRecord, picks []model.HostPick, custom []model.CustomPlace) *View {
	v := newView(zip)
	for _, r := range records {
		v.add(a.classifier.ClassifyPlace(r), r)
	}
	if a.sortByName {
		col := collate.New(language.English, collate.IgnoreCase)
		for i := range v.Sections {
			places := v.Sections[i].Places
			sort.SliceStable(places, func(x, y int) bool {
				return col.CompareString(places[x].Name, places[y].Name) < 0
			})
		}
	}
	v.HostPicks = normalizePicks(picks)
	if len(custom) > 0 {
		v.CustomPlaces = append(v.CustomPlaces, custom...)
	}
	v.Order = v.displayOrder()
	return v
}

// Fallback builds the degraded guide shown when no places could be loaded:
// two placeholder entries in Other.
func Fallback(zip string, picks []model.HostPick, custom []model.CustomPlace) *View {
	v := newView(zip)
	for n := 1; n <= 2; n++ {
		v.add(model.BucketOther, model.PlaceRecord{
			ID:         fmt.Sprintf("fallback-%d-%s", n, zip),
			Name:       fmt.Sprintf("Local Favorite #%d", n),
			Location:   model.Location{Address: zip},
			Categories: []model.Category{},
		})
	}
	v.HostPicks = normalizePicks(picks)
	if len(custom) > 0 {
		v.CustomPlaces = append(v.CustomPlaces, custom...)
	}
	v.Degraded = true
	v.Message = FallbackMessage
	v.Order = v.displayOrder()
	return v
}

func normalizePicks(picks []model.HostPick) []model.HostPick {
	out := []model.HostPick{}
	for _, p := range picks {
		if p.Empty() {
			continue
		}
		out = append(out, p)
		if len(out) == model.MaxHostPicks {
			break
		}
	}
	return out
}
