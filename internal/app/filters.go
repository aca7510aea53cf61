package app

import (
	"sort"

	"booking_search/internal/domain"
)

// EstablishmentFilterFor selects the establishment clauses a query asks for.
func EstablishmentFilterFor(q domain.Query, tags []string) domain.EstablishmentFilter {
	return domain.EstablishmentFilter{
		Text:        q.Destination,
		City:        q.City,
		Country:     q.Country,
		Type:        q.Type,
		Stars:       q.Stars,
		AnyServices: tags,
	}
}

// RoomFilterFor selects the room clauses a query asks for. A guest count
// takes precedence over an explicit capacity range.
func RoomFilterFor(q domain.Query, tags []string, reserved []int64) domain.RoomFilter {
	f := domain.RoomFilter{
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		Available:   q.Available,
		AnyServices: tags,
	}
	if guests, ok := q.Guests(); ok {
		f.MinCapacity = &guests
	} else {
		f.MinCapacity = q.MinCapacity
		f.MaxCapacity = q.MaxCapacity
	}
	if len(reserved) > 0 {
		f.ExcludeIDs = uniqueSorted(reserved)
	}
	return f
}

func uniqueSorted(ids []int64) []int64 {
	out := append([]int64(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 0
	for i, id := range out {
		if i > 0 && id == out[n-1] {
			continue
		}
		out[n] = id
		n++
	}
	return out[:n]
}
