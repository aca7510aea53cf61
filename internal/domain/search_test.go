package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking_search/internal/domain"
)

func TestSearchResult_JSONCarriesKind(t *testing.T) {
	img := "https://cdn.example/1.jpg"
	page := domain.SearchPage{Results: []domain.SearchResult{
		domain.EstablishmentHit(domain.EstablishmentResult{ID: 1, Name: "Hôtel Paris Centre", Image: &img, City: "Paris", Type: domain.TypeHotel}),
		domain.RoomHit(domain.RoomResult{ID: 10, Name: "Chambre Double", Price: 120, Capacity: 2, EstablishmentID: 1, EstablishmentName: "Hôtel Paris Centre"}),
	}}

	b, err := json.Marshal(page)
	require.NoError(t, err)

	var generic struct {
		Results    []map[string]any `json:"results"`
		NextCursor *string          `json:"nextCursor"`
	}
	require.NoError(t, json.Unmarshal(b, &generic))
	assert.Nil(t, generic.NextCursor)
	require.Len(t, generic.Results, 2)
	assert.Equal(t, "establishment", generic.Results[0]["kind"])
	assert.Equal(t, img, generic.Results[0]["image"])
	assert.NotContains(t, generic.Results[0], "price")
	assert.Equal(t, "room", generic.Results[1]["kind"])
	assert.Equal(t, "Hôtel Paris Centre", generic.Results[1]["establishmentName"])
	assert.Equal(t, 120.0, generic.Results[1]["price"])
	assert.Nil(t, generic.Results[1]["image"])

	var back domain.SearchPage
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, page, back)
}

func TestSearchResult_UnknownKind(t *testing.T) {
	_, err := json.Marshal(domain.SearchResult{Kind: "spa"})
	assert.Error(t, err)

	var r domain.SearchResult
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"spa","id":1}`), &r))
}

func TestSearchResult_Owner(t *testing.T) {
	e := domain.EstablishmentHit(domain.EstablishmentResult{ID: 4})
	r := domain.RoomHit(domain.RoomResult{ID: 40, EstablishmentID: 4})
	assert.Equal(t, int64(4), e.OwnerID())
	assert.Equal(t, int64(4), r.OwnerID())
	assert.Equal(t, int64(40), r.ID())
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestReservation_Blocks(t *testing.T) {
	r := domain.Reservation{RoomID: 1, Start: day("2024-07-03"), End: day("2024-07-06"), Status: domain.ReservationConfirmed}

	cases := []struct {
		in, out string
		want    bool
	}{
		{"2024-07-01", "2024-07-03", false}, // leaves the day it starts
		{"2024-07-06", "2024-07-08", false}, // arrives the day it ends
		{"2024-07-02", "2024-07-04", true},
		{"2024-07-05", "2024-07-09", true},
		{"2024-07-04", "2024-07-05", true},
		{"2024-07-01", "2024-07-10", true},
	}
	for _, tc := range cases {
		if got := r.Blocks(day(tc.in), day(tc.out)); got != tc.want {
			t.Errorf("Blocks(%s, %s) = %v, want %v", tc.in, tc.out, got, tc.want)
		}
	}

	for _, s := range []domain.ReservationStatus{domain.ReservationPending, domain.ReservationCancelled} {
		r.Status = s
		if r.Blocks(day("2024-07-04"), day("2024-07-05")) {
			t.Errorf("%s reservation must not block", s)
		}
	}
}

func TestQuery_Guests(t *testing.T) {
	two, one := 2, 1
	n, ok := domain.Query{}.Guests()
	assert.False(t, ok)
	assert.Zero(t, n)

	n, ok = domain.Query{Children: &one}.Guests()
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok = domain.Query{Adults: &two, Children: &one}.Guests()
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}
