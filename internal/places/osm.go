package places

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/guestbites/guestbites/internal/model"
	"github.com/guestbites/guestbites/pkg/nominatim"
	"github.com/guestbites/guestbites/pkg/overpass"
)

// DefaultOSMLimit caps the number of OpenStreetMap results.
const DefaultOSMLimit = 20

// OSMProvider geocodes the ZIP with Nominatim and lists nearby restaurants
// from Overpass. It needs no credentials.
type OSMProvider struct {
	geocoder nominatim.Client
	overpass overpass.Client
	radius   int
	limit    int
}

// NewOSMProvider creates an OSMProvider. Non-positive radius or limit fall
// back to the defaults.
func NewOSMProvider(geocoder nominatim.Client, op overpass.Client, radius, limit int) *OSMProvider {
	if radius <= 0 {
		radius = DefaultRadiusMeters
	}
	if limit <= 0 {
		limit = DefaultOSMLimit
	}
	return &OSMProvider{geocoder: geocoder, overpass: op, radius: radius, limit: limit}
}

// Name implements Provider.
func (p *OSMProvider) Name() string { return model.SourceOSM }

// Available implements Provider.
func (p *OSMProvider) Available() bool { return p.geocoder != nil && p.overpass != nil }

// Search implements Provider.
func (p *OSMProvider) Search(ctx context.Context, zip string) (*model.PlacesPayload, error) {
	loc, err := p.geocoder.Search(ctx, zip)
	if err != nil {
		return nil, eris.Wrap(err, "places: osm geocode")
	}

	resp, err := p.overpass.Query(ctx, overpass.RestaurantQuery(loc.Lat, loc.Lon, p.radius, p.limit))
	if err != nil {
		return nil, eris.Wrap(err, "places: osm query")
	}

	return &model.PlacesPayload{
		Results: MapElements(resp.Elements, p.limit),
		Source:  model.SourceOSM,
		Center:  &model.Center{Lat: loc.Lat, Lon: loc.Lon, DisplayName: loc.DisplayName},
	}, nil
}

// MapElements converts Overpass elements to place records, dropping
// nameless elements and keeping at most limit records.
func MapElements(elements []overpass.Element, limit int) []model.PlaceRecord {
	records := make([]model.PlaceRecord, 0, min(len(elements), limit))
	seen := make(map[string]struct{}, len(elements))
	for _, el := range elements {
		if len(records) >= limit {
			break
		}
		t := el.Tags
		name := firstTag(t, "name", "brand")
		if name == "" {
			continue
		}
		id := fmt.Sprintf("osm-%s-%d", el.Type, el.ID)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		address := strings.TrimSpace(strings.Join(nonEmpty(t["addr:housenumber"], t["addr:street"]), " "))
		if address == "" {
			address = t["addr:full"]
		}

		records = append(records, model.PlaceRecord{
			ID:   id,
			Name: name,
			Location: model.Location{
				Address:  address,
				Locality: firstTag(t, "addr:city", "addr:town", "addr:municipality"),
			},
			Categories: []model.Category{{ID: "osm-restaurant", Name: "Restaurant"}},
			Website:    firstTag(t, "website", "url"),
		})
	}
	return records
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(tags[k]); v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(vals ...string) []string {
	out := vals[:0:0]
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
