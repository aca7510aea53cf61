package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"booking_search/internal/domain"
)

// Catalog fixtures feed cmd/seed. Dates use the query layout (YYYY-MM-DD).
type CatalogFixture struct {
	Establishments []EstablishmentFixture `json:"establishments"`
}

type EstablishmentFixture struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	City        string         `json:"city"`
	Country     string         `json:"country"`
	Type        string         `json:"type"`
	Stars       *int           `json:"stars"`
	Services    []string       `json:"services"`
	Media       []MediaFixture `json:"media"`
	Rooms       []RoomFixture  `json:"rooms"`
}

type RoomFixture struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Price        float64              `json:"price"`
	Capacity     int                  `json:"capacity"`
	Available    *bool                `json:"available"`
	Services     []string             `json:"services"`
	Media        []MediaFixture       `json:"media"`
	Reservations []ReservationFixture `json:"reservations"`
}

type MediaFixture struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReservationFixture struct {
	ID     int64  `json:"id"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

func ReadCatalog(r io.Reader) (CatalogFixture, error) {
	var fx CatalogFixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return CatalogFixture{}, fmt.Errorf("decode catalog: %w", err)
	}
	return fx, nil
}

type CatalogLoader struct {
	w domain.CatalogWriter
}

func NewCatalogLoader(w domain.CatalogWriter) *CatalogLoader {
	return &CatalogLoader{w: w}
}

// LoadEstablishment writes one establishment, parent first so the child
// rows satisfy their foreign keys.
func (l *CatalogLoader) LoadEstablishment(ctx context.Context, fx EstablishmentFixture) error {
	e, err := mapEstablishment(fx)
	if err != nil {
		return err
	}
	if err := l.w.UpsertEstablishment(ctx, e); err != nil {
		return fmt.Errorf("upsert establishment %d: %w", e.ID, err)
	}
	for _, m := range e.Media {
		if err := l.w.UpsertMedia(ctx, e.ID, nil, m); err != nil {
			return fmt.Errorf("upsert media %d of establishment %d: %w", m.ID, e.ID, err)
		}
	}

	for _, rf := range fx.Rooms {
		room, resv, err := mapRoom(e.ID, rf)
		if err != nil {
			return err
		}
		if err := l.w.UpsertRoom(ctx, room); err != nil {
			return fmt.Errorf("upsert room %d: %w", room.ID, err)
		}
		roomID := room.ID
		for _, m := range room.Media {
			if err := l.w.UpsertMedia(ctx, e.ID, &roomID, m); err != nil {
				return fmt.Errorf("upsert media %d of room %d: %w", m.ID, room.ID, err)
			}
		}
		for _, r := range resv {
			if err := l.w.UpsertReservation(ctx, r); err != nil {
				return fmt.Errorf("upsert reservation %d: %w", r.ID, err)
			}
		}
	}
	return nil
}

func mapEstablishment(fx EstablishmentFixture) (domain.Establishment, error) {
	if fx.ID <= 0 || fx.Name == "" {
		return domain.Establishment{}, fmt.Errorf("establishment %d: id and name are required", fx.ID)
	}
	typ := domain.PropertyType(fx.Type)
	if !slices.Contains(domain.PropertyTypes, typ) {
		return domain.Establishment{}, fmt.Errorf("establishment %d: unknown type %q", fx.ID, fx.Type)
	}
	if fx.Stars != nil && (*fx.Stars < 0 || *fx.Stars > 5) {
		return domain.Establishment{}, fmt.Errorf("establishment %d: stars out of range", fx.ID)
	}
	media, err := mapMedia(fx.Media)
	if err != nil {
		return domain.Establishment{}, fmt.Errorf("establishment %d: %w", fx.ID, err)
	}
	return domain.Establishment{
		ID:          fx.ID,
		Name:        fx.Name,
		Description: fx.Description,
		City:        fx.City,
		Country:     fx.Country,
		Type:        typ,
		Stars:       fx.Stars,
		Services:    fx.Services,
		Media:       media,
	}, nil
}

func mapRoom(establishmentID int64, fx RoomFixture) (domain.Room, []domain.Reservation, error) {
	if fx.ID <= 0 {
		return domain.Room{}, nil, fmt.Errorf("room of establishment %d: id is required", establishmentID)
	}
	if fx.Price < 0 || fx.Capacity < 1 {
		return domain.Room{}, nil, fmt.Errorf("room %d: price must be >= 0 and capacity >= 1", fx.ID)
	}
	media, err := mapMedia(fx.Media)
	if err != nil {
		return domain.Room{}, nil, fmt.Errorf("room %d: %w", fx.ID, err)
	}
	available := true
	if fx.Available != nil {
		available = *fx.Available
	}

	resv := make([]domain.Reservation, 0, len(fx.Reservations))
	for _, r := range fx.Reservations {
		start, err1 := time.ParseInLocation(dateLayout, r.Start, time.UTC)
		end, err2 := time.ParseInLocation(dateLayout, r.End, time.UTC)
		if err1 != nil || err2 != nil || !end.After(start) {
			return domain.Room{}, nil, fmt.Errorf("reservation %d: invalid range %s..%s", r.ID, r.Start, r.End)
		}
		status := domain.ReservationStatus(r.Status)
		switch status {
		case domain.ReservationConfirmed, domain.ReservationPending, domain.ReservationCancelled:
		default:
			return domain.Room{}, nil, fmt.Errorf("reservation %d: unknown status %q", r.ID, r.Status)
		}
		resv = append(resv, domain.Reservation{ID: r.ID, RoomID: fx.ID, Start: start, End: end, Status: status})
	}

	return domain.Room{
		ID:              fx.ID,
		EstablishmentID: establishmentID,
		Name:            fx.Name,
		Description:     fx.Description,
		Price:           fx.Price,
		Capacity:        fx.Capacity,
		Available:       available,
		Services:        fx.Services,
		Media:           media,
	}, resv, nil
}

func mapMedia(in []MediaFixture) ([]domain.Media, error) {
	out := make([]domain.Media, 0, len(in))
	for _, m := range in {
		t := domain.MediaType(m.Type)
		if t != domain.MediaImage && t != domain.MediaVideo {
			return nil, fmt.Errorf("media %d: unknown type %q", m.ID, m.Type)
		}
		out = append(out, domain.Media{ID: m.ID, URL: m.URL, Type: t, CreatedAt: m.CreatedAt})
	}
	return out, nil
}
