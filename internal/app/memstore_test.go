package app_test

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"booking_search/internal/domain"
)

// ---- fakes ----

// memStore is an in-memory catalog. It implements the search read ports and
// the catalog writer, so tests seed it through app.CatalogLoader.
type memStore struct {
	mu    sync.Mutex
	ests  map[int64]domain.Establishment
	rooms map[int64]domain.Room
	media map[int64][]domain.Media // establishment media
	rmed  map[int64][]domain.Media // room media
	resv  map[int64]domain.Reservation

	err     error // returned by every read when set
	estErr  error
	roomErr error
	resvErr error
	calls   int

	// onFind runs before either fetcher touches the catalog, outside the lock.
	onFind func(ctx context.Context, source string) error
}

func (m *memStore) enter(ctx context.Context, source string) error {
	if m.onFind == nil {
		return nil
	}
	return m.onFind(ctx, source)
}

func (m *memStore) failure(own error) error {
	if m.err != nil {
		return m.err
	}
	return own
}

func newMemStore() *memStore {
	return &memStore{
		ests:  map[int64]domain.Establishment{},
		rooms: map[int64]domain.Room{},
		media: map[int64][]domain.Media{},
		rmed:  map[int64][]domain.Media{},
		resv:  map[int64]domain.Reservation{},
	}
}

func (m *memStore) UpsertEstablishment(ctx context.Context, e domain.Establishment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.Media, e.Rooms = nil, nil
	m.ests[e.ID] = e
	return nil
}

func (m *memStore) UpsertRoom(ctx context.Context, r domain.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.Media = nil
	m.rooms[r.ID] = r
	return nil
}

func (m *memStore) UpsertMedia(ctx context.Context, establishmentID int64, roomID *int64, md domain.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if roomID != nil {
		m.rmed[*roomID] = append(m.rmed[*roomID], md)
		return nil
	}
	m.media[establishmentID] = append(m.media[establishmentID], md)
	return nil
}

func (m *memStore) UpsertReservation(ctx context.Context, r domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resv[r.ID] = r
	return nil
}

func firstImage(media []domain.Media) *string {
	var imgs []domain.Media
	for _, md := range media {
		if md.Type == domain.MediaImage {
			imgs = append(imgs, md)
		}
	}
	if len(imgs) == 0 {
		return nil
	}
	sort.SliceStable(imgs, func(i, j int) bool {
		if !imgs[i].CreatedAt.Equal(imgs[j].CreatedAt) {
			return imgs[i].CreatedAt.Before(imgs[j].CreatedAt)
		}
		return imgs[i].ID < imgs[j].ID
	})
	u := imgs[0].URL
	return &u
}

func (m *memStore) FindEstablishments(ctx context.Context, f domain.EstablishmentFilter, page domain.Keyset) ([]domain.EstablishmentResult, error) {
	if err := m.enter(ctx, "establishments"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.failure(m.estErr); err != nil {
		return nil, err
	}
	var out []domain.EstablishmentResult
	for _, id := range sortedKeys(m.ests) {
		e := m.ests[id]
		if page.After != nil && id <= *page.After {
			continue
		}
		if f.Text != nil && !(like(e.Name, *f.Text) || like(e.Description, *f.Text) || like(e.City, *f.Text)) {
			continue
		}
		if f.City != nil && !like(e.City, *f.City) {
			continue
		}
		if f.Country != nil && !like(e.Country, *f.Country) {
			continue
		}
		if f.Type != nil && e.Type != *f.Type {
			continue
		}
		if f.Stars != nil && (e.Stars == nil || *e.Stars != *f.Stars) {
			continue
		}
		if len(f.AnyServices) > 0 && !overlaps(e.Services, f.AnyServices) {
			continue
		}
		out = append(out, domain.EstablishmentResult{
			ID: e.ID, Name: e.Name, Description: e.Description, Image: firstImage(m.media[e.ID]),
			City: e.City, Country: e.Country, Type: e.Type, Stars: e.Stars,
		})
		if len(out) == page.Limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) FindRooms(ctx context.Context, f domain.RoomFilter, page domain.Keyset) ([]domain.RoomResult, error) {
	if err := m.enter(ctx, "rooms"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.failure(m.roomErr); err != nil {
		return nil, err
	}
	var out []domain.RoomResult
	for _, id := range sortedKeys(m.rooms) {
		r := m.rooms[id]
		e, ok := m.ests[r.EstablishmentID]
		if !ok || (page.After != nil && id <= *page.After) {
			continue
		}
		if f.MinPrice != nil && r.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && r.Price > *f.MaxPrice {
			continue
		}
		if f.MinCapacity != nil && r.Capacity < *f.MinCapacity {
			continue
		}
		if f.MaxCapacity != nil && r.Capacity > *f.MaxCapacity {
			continue
		}
		if f.Available != nil && r.Available != *f.Available {
			continue
		}
		if len(f.AnyServices) > 0 && !overlaps(r.Services, f.AnyServices) {
			continue
		}
		if slices.Contains(f.ExcludeIDs, r.ID) {
			continue
		}
		out = append(out, domain.RoomResult{
			ID: r.ID, Name: r.Name, Description: r.Description, Image: firstImage(m.rmed[r.ID]),
			City: e.City, Country: e.Country, Type: e.Type, Stars: e.Stars,
			Price: r.Price, Capacity: r.Capacity,
			EstablishmentID: e.ID, EstablishmentName: e.Name,
		})
		if len(out) == page.Limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) ReservedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.failure(m.resvErr); err != nil {
		return nil, err
	}
	var ids []int64
	for _, r := range m.resv {
		if r.Blocks(checkIn, checkOut) {
			ids = append(ids, r.RoomID)
		}
	}
	return ids, nil
}

func (m *memStore) readCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func sortedKeys[V any](mp map[int64]V) []int64 {
	keys := make([]int64, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// like approximates the store's case-insensitive LIKE '%x%'.
func like(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func overlaps(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

type memCache struct {
	mu    sync.Mutex
	store map[string]domain.SearchPage
	sets  int
	ttl   time.Duration // of the last Set
	err   error
}

func (c *memCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*dst.(*domain.SearchPage) = v
	return true, nil
}

func (c *memCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.store == nil {
		c.store = map[string]domain.SearchPage{}
	}
	c.store[key] = v.(domain.SearchPage)
	c.sets++
	c.ttl = ttl
	return nil
}

func (c *memCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func ptr[T any](v T) *T { return &v }
