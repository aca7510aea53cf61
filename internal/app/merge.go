package app

import (
	"sort"

	"booking_search/internal/domain"
)

// scored pairs a result with its rank. It never leaves this package.
type scored struct {
	score  int
	result domain.SearchResult
}

type resultKey struct {
	kind domain.ResultKind
	id   int64
}

func keyOf(r domain.SearchResult) resultKey { return resultKey{r.Kind, r.ID()} }

// mergePage ranks both candidate lists, keeps the best entry per
// establishment and cuts the page. Establishments precede rooms before the
// stable sort, so they win exact ties.
func mergePage(ests []domain.EstablishmentResult, rooms []domain.RoomResult, q domain.Query, limit int, prev cursor) domain.SearchPage {
	all := make([]scored, 0, len(ests)+len(rooms))
	for _, e := range ests {
		r := domain.EstablishmentHit(e)
		all = append(all, scored{score: Score(r, q), result: r})
	}
	for _, rm := range rooms {
		r := domain.RoomHit(rm)
		all = append(all, scored{score: Score(r, q), result: r})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	seen := make(map[int64]struct{}, len(all))
	var unique, dups []scored
	for _, s := range all {
		owner := s.result.OwnerID()
		if _, ok := seen[owner]; ok {
			dups = append(dups, s)
			continue
		}
		seen[owner] = struct{}{}
		unique = append(unique, s)
	}
	if len(unique) > limit {
		unique = unique[:limit]
	}

	page := domain.SearchPage{Results: make([]domain.SearchResult, 0, len(unique))}
	for _, s := range unique {
		page.Results = append(page.Results, s.result)
	}
	if limit > 0 && len(page.Results) == limit {
		next := advance(prev, ests, rooms, page.Results, dups).String()
		page.NextCursor = &next
	}
	return page
}

// advance moves each source's keyset position past every emitted row, and
// further over any leading rows that were folded into an emitted
// establishment. Rows cut by the page limit are not skipped unless an
// emitted row of the same source has a higher id.
func advance(prev cursor, ests []domain.EstablishmentResult, rooms []domain.RoomResult, emitted []domain.SearchResult, dups []scored) cursor {
	emittedKeys := make(map[resultKey]bool, len(emitted))
	owners := make(map[int64]bool, len(emitted))
	for _, r := range emitted {
		emittedKeys[keyOf(r)] = true
		owners[r.OwnerID()] = true
	}
	consumed := make(map[resultKey]bool, len(emitted)+len(dups))
	for k := range emittedKeys {
		consumed[k] = true
	}
	for _, d := range dups {
		if owners[d.result.OwnerID()] {
			consumed[keyOf(d.result)] = true
		}
	}

	estIDs := make([]int64, len(ests))
	for i, e := range ests {
		estIDs[i] = e.ID
	}
	roomIDs := make([]int64, len(rooms))
	for i, r := range rooms {
		roomIDs[i] = r.ID
	}
	return cursor{
		establishment: position(prev.establishment, estIDs, domain.KindEstablishment, consumed, emittedKeys),
		room:          position(prev.room, roomIDs, domain.KindRoom, consumed, emittedKeys),
	}
}

// position assumes ids are in fetch (ascending) order.
func position(start *int64, ids []int64, kind domain.ResultKind, consumed, emitted map[resultKey]bool) *int64 {
	pos := start
	for _, id := range ids {
		if !consumed[resultKey{kind, id}] {
			break
		}
		id := id
		pos = &id
	}
	for _, id := range ids {
		if emitted[resultKey{kind, id}] && (pos == nil || id > *pos) {
			id := id
			pos = &id
		}
	}
	return pos
}
