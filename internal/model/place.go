package model

// Place sources reported in PlacesPayload.Source.
const (
	SourceFoursquare = "fsq"
	SourceOSM        = "osm"
)

// Category is a single category tag attached to a place.
type Category struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Location is the street-level address of a place.
type Location struct {
	Address  string `json:"address"`
	Locality string `json:"locality"`
}

// PlaceRecord is a normalized point of interest returned by a place search
// provider. The JSON shape matches what the guest pages already consume.
type PlaceRecord struct {
	ID         string     `json:"fsq_id"`
	Name       string     `json:"name"`
	Location   Location   `json:"location"`
	Categories []Category `json:"categories"`
	Website    string     `json:"website,omitempty"`
	Distance   *float64   `json:"distance,omitempty"`
	Rating     *float64   `json:"rating,omitempty"`
}

// CategoryNames returns the category names in their original order.
func (p PlaceRecord) CategoryNames() []string {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		names = append(names, c.Name)
	}
	return names
}

// Center is the resolved coordinate of a searched ZIP code.
type Center struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name,omitempty"`
}

// PlacesPayload is the response of a place search, as served by /places and
// held by the result cache.
type PlacesPayload struct {
	Results []PlaceRecord `json:"results"`
	Source  string        `json:"source"`
	Center  *Center       `json:"center,omitempty"`
}
