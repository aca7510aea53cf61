package app

import "booking_search/internal/domain"

const maxScore = 100

// Score rates how well a candidate matches q, from 0 to 100. It is pure.
func Score(c domain.SearchResult, q domain.Query) int {
	var (
		name, desc, city, country string
		typ                       domain.PropertyType
		stars                     *int
		price                     *float64
	)
	switch c.Kind {
	case domain.KindEstablishment:
		e := c.Establishment
		name, desc, city, country, typ, stars = e.Name, e.Description, e.City, e.Country, e.Type, e.Stars
	case domain.KindRoom:
		r := c.Room
		name, desc, city, country, typ, stars = r.Name, r.Description, r.City, r.Country, r.Type, r.Stars
		price = &r.Price
	default:
		return 0
	}

	s := 0
	if q.Destination != nil {
		switch d := *q.Destination; {
		case containsFold(name, d):
			s += 40
		case containsFold(desc, d):
			s += 20
		case containsFold(city, d):
			s += 10
		}
	}
	if q.City != nil && containsFold(city, *q.City) {
		s += 15
	}
	if q.Country != nil && containsFold(country, *q.Country) {
		s += 10
	}
	if q.Type != nil && *q.Type == typ {
		s += 5
	}
	if q.Stars != nil && stars != nil && *q.Stars == *stars {
		s += 5
	}
	if price != nil {
		if q.MinPrice != nil && *price >= *q.MinPrice {
			s += 5
		}
		if q.MaxPrice != nil && *price <= *q.MaxPrice {
			s += 5
		}
	}
	return min(s, maxScore)
}
