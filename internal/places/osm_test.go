package places

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guestbites/guestbites/internal/model"
	"github.com/guestbites/guestbites/pkg/nominatim"
	nommocks "github.com/guestbites/guestbites/pkg/nominatim/mocks"
	"github.com/guestbites/guestbites/pkg/overpass"
	opmocks "github.com/guestbites/guestbites/pkg/overpass/mocks"
)

func TestMapElements(t *testing.T) {
	elements := []overpass.Element{
		{Type: "node", ID: 1, Tags: map[string]string{
			"name":             "Katzinger's Delicatessen",
			"addr:housenumber": "475",
			"addr:street":      "South 3rd Street",
			"addr:city":        "Columbus",
			"website":          "https://katzingers.com",
		}},
		{Type: "way", ID: 2, Tags: map[string]string{
			"brand":     "Donatos",
			"addr:full": "2242 E Main St, Bexley",
			"addr:town": "Bexley",
			"url":       "https://donatos.com",
		}},
		{Type: "node", ID: 3, Tags: map[string]string{"amenity": "restaurant"}},
		{Type: "relation", ID: 4, Tags: map[string]string{
			"name":              "Rubino's",
			"addr:street":       "East Main Street",
			"addr:municipality": "Bexley",
		}},
	}

	got := MapElements(elements, 20)
	require.Len(t, got, 3)

	assert.Equal(t, "osm-node-1", got[0].ID)
	assert.Equal(t, "475 South 3rd Street", got[0].Location.Address)
	assert.Equal(t, "Columbus", got[0].Location.Locality)
	assert.Equal(t, "https://katzingers.com", got[0].Website)
	assert.Equal(t, []model.Category{{ID: "osm-restaurant", Name: "Restaurant"}}, got[0].Categories)
	assert.Nil(t, got[0].Distance)
	assert.Nil(t, got[0].Rating)

	assert.Equal(t, "osm-way-2", got[1].ID)
	assert.Equal(t, "Donatos", got[1].Name)
	assert.Equal(t, "2242 E Main St, Bexley", got[1].Location.Address)
	assert.Equal(t, "Bexley", got[1].Location.Locality)
	assert.Equal(t, "https://donatos.com", got[1].Website)

	assert.Equal(t, "osm-relation-4", got[2].ID)
	assert.Equal(t, "East Main Street", got[2].Location.Address)
	assert.Equal(t, "Bexley", got[2].Location.Locality)
}

func TestMapElements_Limit(t *testing.T) {
	var elements []overpass.Element
	for i := range 30 {
		elements = append(elements, overpass.Element{Type: "node", ID: int64(i), Tags: map[string]string{"name": "x"}})
	}
	assert.Len(t, MapElements(elements, 20), 20)
	assert.Empty(t, MapElements(nil, 20))
}

func TestMapElements_DropsRepeatedIDs(t *testing.T) {
	got := MapElements([]overpass.Element{
		{Type: "node", ID: 1, Tags: map[string]string{"name": "Rubino's"}},
		{Type: "way", ID: 1, Tags: map[string]string{"name": "Rubino's Patio"}},
		{Type: "node", ID: 1, Tags: map[string]string{"name": "Rubino's again"}},
	}, 20)
	require.Len(t, got, 2)
	assert.Equal(t, "osm-node-1", got[0].ID)
	assert.Equal(t, "Rubino's", got[0].Name)
	assert.Equal(t, "osm-way-1", got[1].ID)
}

func TestOSMProvider_Search(t *testing.T) {
	geo := nommocks.NewMockClient(t)
	geo.On("Search", mock.Anything, "43209").Return(&nominatim.Location{
		Lat: 39.9537, Lon: -82.9287, DisplayName: "Bexley, Ohio",
	}, nil)

	op := opmocks.NewMockClient(t)
	op.On("Query", mock.Anything, overpass.RestaurantQuery(39.9537, -82.9287, 4000, 20)).
		Return(&overpass.Response{Elements: []overpass.Element{
			{Type: "node", ID: 9, Tags: map[string]string{"name": "Rubino's"}},
		}}, nil)

	p := NewOSMProvider(geo, op, 0, 0)
	assert.True(t, p.Available())
	assert.Equal(t, model.SourceOSM, p.Name())

	payload, err := p.Search(context.Background(), "43209")
	require.NoError(t, err)
	assert.Equal(t, model.SourceOSM, payload.Source)
	require.NotNil(t, payload.Center)
	assert.Equal(t, "Bexley, Ohio", payload.Center.DisplayName)
	require.Len(t, payload.Results, 1)
	assert.Equal(t, "osm-node-9", payload.Results[0].ID)
}

func TestOSMProvider_GeocodeNotFound(t *testing.T) {
	geo := nommocks.NewMockClient(t)
	geo.On("Search", mock.Anything, "99999").Return(nil, nominatim.ErrNotFound)
	op := opmocks.NewMockClient(t)

	_, err := NewOSMProvider(geo, op, 0, 0).Search(context.Background(), "99999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, nominatim.ErrNotFound))
	op.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestOSMProvider_QueryError(t *testing.T) {
	geo := nommocks.NewMockClient(t)
	geo.On("Search", mock.Anything, "43209").Return(&nominatim.Location{Lat: 1, Lon: 2}, nil)
	op := opmocks.NewMockClient(t)
	op.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("overpass: unexpected status 504"))

	_, err := NewOSMProvider(geo, op, 0, 0).Search(context.Background(), "43209")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "osm query")
}

func TestOSMProvider_Unavailable(t *testing.T) {
	assert.False(t, NewOSMProvider(nil, nil, 0, 0).Available())
}
