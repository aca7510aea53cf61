package domain

import "time"

type PropertyType string

const (
	TypeHotel       PropertyType = "hotel"
	TypeAppartement PropertyType = "appartement"
	TypeVilla       PropertyType = "villa"
	TypeMaisonHotes PropertyType = "maison_hotes"
	TypeAuberge     PropertyType = "auberge"
	TypeGite        PropertyType = "gite"
)

// PropertyTypes lists every accepted establishment type.
var PropertyTypes = []PropertyType{TypeHotel, TypeAppartement, TypeVilla, TypeMaisonHotes, TypeAuberge, TypeGite}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Media struct {
	ID        int64
	URL       string
	Type      MediaType
	CreatedAt time.Time
}

type Establishment struct {
	ID          int64
	Name        string
	Description string
	City        string
	Country     string
	Type        PropertyType
	Stars       *int // 0..5, nil when unrated
	Services    []string
	Rooms       []Room
	Media       []Media
}

type Room struct {
	ID              int64
	EstablishmentID int64
	Name            string
	Description     string
	Price           float64
	Capacity        int
	Available       bool
	Services        []string
	Media           []Media
}

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationPending   ReservationStatus = "pending"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation is owned by the booking flow; search only reads its range and status.
type Reservation struct {
	ID     int64
	RoomID int64
	Start  time.Time
	End    time.Time
	Status ReservationStatus
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Ranges that only touch at a boundary do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Blocks reports whether r makes its room unavailable for a stay [checkIn, checkOut).
func (r Reservation) Blocks(checkIn, checkOut time.Time) bool {
	return r.Status == ReservationConfirmed && Overlaps(checkIn, checkOut, r.Start, r.End)
}
