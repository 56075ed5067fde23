package guide

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestbites/guestbites/internal/model"
)

func TestValidZip(t *testing.T) {
	assert.True(t, ValidZip("43209"))
	assert.True(t, ValidZip("02134"))
	assert.False(t, ValidZip(""))
	assert.False(t, ValidZip("4320"))
	assert.False(t, ValidZip("43209-1234"))
	assert.False(t, ValidZip("abcde"))
}

func TestCustomRoundTrip(t *testing.T) {
	cases := [][]model.CustomPlace{
		{{Name: "Donatos", Address: "2242 E Main St", Category: "Pizza", Link: "https://donatos.com"}},
		{
			{Name: "Café Olé & Co.", Address: "1 Main St #2", Category: "Coffee + Tea", Link: "https://example.com/?a=1&b=2"},
			{Name: "Rubino's", Address: "", Category: "", Link: ""},
			{Name: "100% \"Real\" 🍕", Address: "Ünïcode Ave", Category: "Pizza/Subs", Link: ""},
		},
	}
	for _, places := range cases {
		assert.Equal(t, places, DecodeCustom(EncodeCustom(places)))
	}

	assert.Empty(t, DecodeCustom(EncodeCustom(nil)))
	assert.Empty(t, DecodeCustom(EncodeCustom([]model.CustomPlace{})))
}

func TestCustomRoundTrip_ThroughQueryString(t *testing.T) {
	places := []model.CustomPlace{{Name: "Katzinger's", Address: "475 S 3rd St", Category: "Deli", Link: "https://katzingers.com"}}

	link := GuideLink("https://guestbites.app", "43215", places)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/guide/43215", u.Path)
	assert.Equal(t, places, DecodeCustom(u.Query().Get("custom")))
}

func TestDecodeCustom_Malformed(t *testing.T) {
	for _, param := range []string{
		"",
		"%E0%A4%A",
		"not json",
		url.QueryEscape(`{"name":"object not list"}`),
		url.QueryEscape(`[{"name":`),
	} {
		got := DecodeCustom(param)
		assert.NotNil(t, got, param)
		assert.Empty(t, got, param)
	}
}

func TestDecodeCustom_BareJSON(t *testing.T) {
	got := DecodeCustom(`[{"name":"Rubino's","address":"2643 E Main St","category":"Pizza","link":""}]`)
	require.Len(t, got, 1)
	assert.Equal(t, "Rubino's", got[0].Name)
}

func TestDecodeCustom_KeepsPlusAndPercent(t *testing.T) {
	places := []model.CustomPlace{{Name: "Ben+Jerry's 100%", Link: "https://x.test/?a=1+2&b=50%25"}}
	raw, err := json.Marshal(places)
	require.NoError(t, err)

	// A page that escapes the JSON once, as encodeURIComponent does.
	u, err := url.Parse("https://guestbites.app/guide/43209?custom=" + url.QueryEscape(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, places, DecodeCustom(u.Query().Get("custom")))

	assert.Equal(t, places, DecodeCustom(string(raw)))
	assert.Equal(t, places, DecodeCustom(EncodeCustom(places)))

	u, err = url.Parse(GuideLink("https://guestbites.app", "43209", places))
	require.NoError(t, err)
	assert.Equal(t, places, DecodeCustom(u.Query().Get("custom")))
}

func TestEncodeCustom_SpacesAsPercent20(t *testing.T) {
	places := []model.CustomPlace{{Name: "Joe's Diner", Category: "Coffee + Tea"}}
	enc := EncodeCustom(places)
	assert.NotContains(t, enc, "+")

	// decodeURIComponent semantics: "+" is never turned into a space.
	dec, err := url.PathUnescape(enc)
	require.NoError(t, err)
	assert.Contains(t, dec, `"name":"Joe's Diner"`)
	assert.Contains(t, dec, `"category":"Coffee + Tea"`)
}

func TestAddCustom(t *testing.T) {
	current := []model.CustomPlace{{Name: "Donatos"}}

	updated, param, err := AddCustom(current, model.CustomPlace{Name: "  Rubino's ", Category: "Pizza"})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, "Rubino's", updated[1].Name)
	assert.Len(t, current, 1)
	assert.Equal(t, updated, DecodeCustom(param))

	_, _, err = AddCustom(current, model.CustomPlace{Name: " "})
	assert.ErrorIs(t, err, ErrCustomNameRequired)
}

func TestPicksFromQuery(t *testing.T) {
	q := url.Values{
		"h1Name": {"Rubino's"},
		"h1Note": {"Thin crust, cash only"},
		"h2Name": {""},
		"h2Note": {"ignored without a name"},
	}
	assert.Equal(t, []model.HostPick{{Name: "Rubino's", Note: "Thin crust, cash only"}}, PicksFromQuery(q))
	assert.Empty(t, PicksFromQuery(url.Values{}))

	q = url.Values{"h2Name": {"Katzinger's"}}
	assert.Equal(t, []model.HostPick{{Name: "Katzinger's"}}, PicksFromQuery(q))
}

func TestShareLink(t *testing.T) {
	link := ShareLink("https://guestbites.app/", "43209", "Bexley Bungalow", []model.HostPick{
		{Name: "Rubino's", Note: "Cash only"},
		{Name: "Jeni's"},
	})
	assert.Equal(t,
		"https://guestbites.app/guest-guide?zip=43209&propertyName=Bexley+Bungalow&h1Name=Rubino%27s&h1Note=Cash+only&h2Name=Jeni%27s",
		link,
	)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, []model.HostPick{{Name: "Rubino's", Note: "Cash only"}, {Name: "Jeni's"}}, PicksFromQuery(u.Query()))
}

func TestShareLink_ZipOnly(t *testing.T) {
	assert.Equal(t, "https://guestbites.app/guest-guide?zip=43209", ShareLink("https://guestbites.app", "43209", "", nil))
}

func TestGuideLink_NoCustom(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/guide/43209", GuideLink("http://localhost:8080", "43209", nil))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Bakery • Café", CategoryLabel(record("1", "x", "Bakery", "Café", "Dessert Shop")))
	assert.Equal(t, "Pizza Place", CategoryLabel(record("1", "x", "Pizza Place")))
	assert.Equal(t, "Deli", CategoryLabel(record("1", "x", "", "Deli")))
	assert.Empty(t, CategoryLabel(record("1", "x")))
}
