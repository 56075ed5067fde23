package guide

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/guestbites/guestbites/internal/model"
)

// ErrCustomNameRequired is returned when adding a custom place without a name.
var ErrCustomNameRequired = eris.New("guide: custom place name is required")

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// ValidZip reports whether zip is a five-digit US ZIP code.
func ValidZip(zip string) bool {
	return zipPattern.MatchString(zip)
}

// EncodeCustom encodes custom places as the value of the "custom" page
// parameter: JSON escaped the way encodeURIComponent does, with spaces as
// %20 rather than "+".
func EncodeCustom(places []model.CustomPlace) string {
	if places == nil {
		places = []model.CustomPlace{}
	}
	b, err := json.Marshal(places)
	if err != nil {
		return escapeComponent("[]")
	}
	return escapeComponent(string(b))
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// DecodeCustom reverses EncodeCustom. A value that is already bare JSON
// (starts with "[") is parsed as is, so a literal "+" or "%" survives.
// Anything that does not decode to a list of places yields an empty list.
func DecodeCustom(param string) []model.CustomPlace {
	param = strings.TrimSpace(param)
	if param == "" {
		return []model.CustomPlace{}
	}
	if strings.HasPrefix(param, "[") {
		if places, ok := parseCustom(param); ok {
			return places
		}
	}
	// PathUnescape leaves "+" alone, matching decodeURIComponent.
	if unescaped, err := url.PathUnescape(param); err == nil {
		if places, ok := parseCustom(unescaped); ok {
			return places
		}
	}
	return []model.CustomPlace{}
}

func parseCustom(s string) ([]model.CustomPlace, bool) {
	var places []model.CustomPlace
	if err := json.Unmarshal([]byte(s), &places); err != nil {
		return nil, false
	}
	if places == nil {
		places = []model.CustomPlace{}
	}
	return places, true
}

// AddCustom appends p to current and returns the new list with its encoded
// parameter. current is not modified.
func AddCustom(current []model.CustomPlace, p model.CustomPlace) ([]model.CustomPlace, string, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, "", ErrCustomNameRequired
	}
	updated := make([]model.CustomPlace, 0, len(current)+1)
	updated = append(updated, current...)
	updated = append(updated, p)
	return updated, EncodeCustom(updated), nil
}

// PicksFromQuery reads host picks from h1Name/h1Note and h2Name/h2Note. A
// pick is only included when its name is set.
func PicksFromQuery(q url.Values) []model.HostPick {
	picks := []model.HostPick{}
	for _, prefix := range []string{"h1", "h2"} {
		p := model.HostPick{
			Name: strings.TrimSpace(q.Get(prefix + "Name")),
			Note: strings.TrimSpace(q.Get(prefix + "Note")),
		}
		if !p.Empty() {
			picks = append(picks, p)
		}
	}
	return picks
}

// ShareLink builds the guest guide URL a host hands out. Parameters appear
// in the order zip, propertyName, h1Name, h1Note, h2Name, h2Note, and empty
// ones are omitted.
func ShareLink(origin, zip, propertyName string, picks []model.HostPick) string {
	pairs := [][2]string{{"zip", zip}, {"propertyName", propertyName}}
	for i, p := range normalizePicks(picks) {
		n := string(rune('1' + i))
		pairs = append(pairs, [2]string{"h" + n + "Name", p.Name}, [2]string{"h" + n + "Note", p.Note})
	}
	return strings.TrimRight(origin, "/") + "/guest-guide?" + encodeOrdered(pairs)
}

// GuideLink builds the ZIP guide URL carrying custom places.
func GuideLink(origin, zip string, custom []model.CustomPlace) string {
	link := strings.TrimRight(origin, "/") + "/guide/" + url.PathEscape(zip)
	if len(custom) == 0 {
		return link
	}
	return link + "?" + encodeOrdered([][2]string{{"custom", EncodeCustom(custom)}})
}

func encodeOrdered(pairs [][2]string) string {
	var sb strings.Builder
	for _, kv := range pairs {
		if strings.TrimSpace(kv[1]) == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv[0]))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv[1]))
	}
	return sb.String()
}

// CategoryLabel joins the first two category names with " • ".
func CategoryLabel(p model.PlaceRecord) string {
	names := p.CategoryNames()
	if len(names) > 2 {
		names = names[:2]
	}
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " • ")
}
