package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Query is the validated, normalised form of a search request. Nil means "not filtered".
type Query struct {
	Destination *string       `json:"destination,omitempty"`
	City        *string       `json:"city,omitempty"`
	Country     *string       `json:"country,omitempty"`
	Type        *PropertyType `json:"type,omitempty"`
	Services    []string      `json:"services,omitempty"` // internal tags, not labels
	Stars       *int          `json:"stars,omitempty"`
	CheckIn     *time.Time    `json:"checkIn,omitempty"`
	CheckOut    *time.Time    `json:"checkOut,omitempty"`
	MinPrice    *float64      `json:"minPrice,omitempty"`
	MaxPrice    *float64      `json:"maxPrice,omitempty"`
	MinCapacity *int          `json:"minCapacity,omitempty"`
	MaxCapacity *int          `json:"maxCapacity,omitempty"`
	Adults      *int          `json:"adults,omitempty"`
	Children    *int          `json:"children,omitempty"`
	Available   *bool         `json:"available,omitempty"`
}

// HasStay is true when both dates are present and availability must be checked.
func (q Query) HasStay() bool { return q.CheckIn != nil && q.CheckOut != nil }

// Guests returns adults+children when either count is given.
func (q Query) Guests() (int, bool) {
	if q.Adults == nil && q.Children == nil {
		return 0, false
	}
	n := 0
	if q.Adults != nil {
		n += *q.Adults
	}
	if q.Children != nil {
		n += *q.Children
	}
	return n, true
}

type SearchOptions struct {
	Cursor string
	Limit  int
}

type ResultKind string

const (
	KindEstablishment ResultKind = "establishment"
	KindRoom          ResultKind = "room"
)

type EstablishmentResult struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Image       *string      `json:"image"`
	City        string       `json:"city"`
	Country     string       `json:"country"`
	Type        PropertyType `json:"type"`
	Stars       *int         `json:"stars"`
}

type RoomResult struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Image             *string      `json:"image"`
	City              string       `json:"city"`
	Country           string       `json:"country"`
	Type              PropertyType `json:"type"`
	Stars             *int         `json:"stars"`
	Price             float64      `json:"price"`
	Capacity          int          `json:"capacity"`
	EstablishmentID   int64        `json:"establishmentId"`
	EstablishmentName string       `json:"establishmentName"`
}

// SearchResult is one entry of a global search page. Exactly one of
// Establishment or Room is set, matching Kind.
type SearchResult struct {
	Kind          ResultKind
	Establishment *EstablishmentResult
	Room          *RoomResult
}

func EstablishmentHit(e EstablishmentResult) SearchResult {
	return SearchResult{Kind: KindEstablishment, Establishment: &e}
}

func RoomHit(r RoomResult) SearchResult {
	return SearchResult{Kind: KindRoom, Room: &r}
}

// OwnerID is the establishment a result belongs to.
func (r SearchResult) OwnerID() int64 {
	if r.Kind == KindRoom {
		return r.Room.EstablishmentID
	}
	return r.Establishment.ID
}

// ID is the primary key of the underlying row.
func (r SearchResult) ID() int64 {
	if r.Kind == KindRoom {
		return r.Room.ID
	}
	return r.Establishment.ID
}

func (r SearchResult) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindEstablishment:
		return json.Marshal(struct {
			Kind ResultKind `json:"kind"`
			*EstablishmentResult
		}{r.Kind, r.Establishment})
	case KindRoom:
		return json.Marshal(struct {
			Kind ResultKind `json:"kind"`
			*RoomResult
		}{r.Kind, r.Room})
	}
	return nil, fmt.Errorf("search result: unknown kind %q", r.Kind)
}

func (r *SearchResult) UnmarshalJSON(b []byte) error {
	var head struct {
		Kind ResultKind `json:"kind"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	switch head.Kind {
	case KindEstablishment:
		var e EstablishmentResult
		if err := json.Unmarshal(b, &e); err != nil {
			return err
		}
		*r = EstablishmentHit(e)
	case KindRoom:
		var rr RoomResult
		if err := json.Unmarshal(b, &rr); err != nil {
			return err
		}
		*r = RoomHit(rr)
	default:
		return fmt.Errorf("search result: unknown kind %q", head.Kind)
	}
	return nil
}

type SearchPage struct {
	Results    []SearchResult `json:"results"`
	NextCursor *string        `json:"nextCursor,omitempty"`
}
