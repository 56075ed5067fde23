// Package guide assembles the guest-facing restaurant guide for a ZIP code.
package guide

import "github.com/guestbites/guestbites/internal/model"

// FallbackMessage is shown above a degraded guide.
const FallbackMessage = "Couldn’t load places right now. Showing a few local favorites."

// Place is a place record as shown on a guide.
type Place struct {
	model.PlaceRecord
	// CategoryLabel is the first two category names, e.g. "Bakery • Café".
	CategoryLabel string `json:"categoryLabel,omitempty"`
}

// Section is one bucket of a guide.
type Section struct {
	Bucket model.Bucket `json:"bucket"`
	Label  string       `json:"label"`
	Places []Place      `json:"places"`
}

// View is an assembled guide. Sections always holds every classifier
// bucket in display order, empty or not.
type View struct {
	Zip          string              `json:"zip"`
	PropertyName string              `json:"propertyName,omitempty"`
	Sections     []Section           `json:"buckets"`
	// Order lists the buckets to render: non-empty ones in display order,
	// then Custom when there are custom places.
	Order        []model.Bucket      `json:"order"`
	HostPicks    []model.HostPick    `json:"hostPicks"`
	CustomPlaces []model.CustomPlace `json:"customPlaces"`
	Degraded     bool                `json:"degraded"`
	Message      string              `json:"message,omitempty"`
	Source       string              `json:"source,omitempty"`
}

func newView(zip string) *View {
	v := &View{
		Zip:          zip,
		Sections:     make([]Section, 0, len(model.ClassifiedBuckets)),
		Order:        []model.Bucket{},
		HostPicks:    []model.HostPick{},
		CustomPlaces: []model.CustomPlace{},
	}
	for _, b := range model.ClassifiedBuckets {
		v.Sections = append(v.Sections, Section{Bucket: b, Label: b.Label(), Places: []Place{}})
	}
	return v
}

// Bucket returns the places in bucket b.
func (v *View) Bucket(b model.Bucket) []Place {
	for _, s := range v.Sections {
		if s.Bucket == b {
			return s.Places
		}
	}
	return nil
}

func (v *View) displayOrder() []model.Bucket {
	out := []model.Bucket{}
	for _, s := range v.Sections {
		if len(s.Places) > 0 {
			out = append(out, s.Bucket)
		}
	}
	if len(v.CustomPlaces) > 0 {
		out = append(out, model.BucketCustom)
	}
	return out
}

// Len returns the number of provider places across all buckets.
func (v *View) Len() int {
	n := 0
	for _, s := range v.Sections {
		n += len(s.Places)
	}
	return n
}

func (v *View) add(b model.Bucket, p model.PlaceRecord) {
	for i := range v.Sections {
		if v.Sections[i].Bucket == b {
			v.Sections[i].Places = append(v.Sections[i].Places, Place{PlaceRecord: p, CategoryLabel: CategoryLabel(p)})
			return
		}
	}
}
