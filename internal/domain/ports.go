package domain

import (
	"context"
	"time"
)

// Read paths used by the search engine. Implementations must order by
// primary key ascending so Keyset pagination stays stable.
type EstablishmentStore interface {
	FindEstablishments(ctx context.Context, f EstablishmentFilter, page Keyset) ([]EstablishmentResult, error)
}

type RoomStore interface {
	FindRooms(ctx context.Context, f RoomFilter, page Keyset) ([]RoomResult, error)
}

type ReservationStore interface {
	// ReservedRoomIDs returns rooms holding a confirmed reservation that
	// overlaps [checkIn, checkOut).
	ReservedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) ([]int64, error)
}

// CatalogWriter is the write side used by the seed command only.
type CatalogWriter interface {
	UpsertEstablishment(ctx context.Context, e Establishment) error
	UpsertRoom(ctx context.Context, r Room) error
	UpsertMedia(ctx context.Context, establishmentID int64, roomID *int64, m Media) error
	UpsertReservation(ctx context.Context, r Reservation) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
