package mysql

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking_search/internal/domain"
)

func render(t *testing.T, table string, pred exp.ExpressionList) (string, []any) {
	t.Helper()
	alias := table[:1]
	sql, args, err := goqu.Dialect("mysql").From(goqu.T(table).As(alias)).Where(pred).Prepared(true).ToSQL()
	require.NoError(t, err)
	return sql, args
}

func TestEstablishmentPredicate_Empty(t *testing.T) {
	sql, args := render(t, "establishments", establishmentPredicate(domain.EstablishmentFilter{}))
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestEstablishmentPredicate_AllClauses(t *testing.T) {
	text, city, country := "50%_off", "Paris", "France"
	typ := domain.TypeHotel
	stars := 4
	sql, args := render(t, "establishments", establishmentPredicate(domain.EstablishmentFilter{
		Text: &text, City: &city, Country: &country, Type: &typ, Stars: &stars,
		AnyServices: []string{"wifi", "pool"},
	}))

	for _, frag := range []string{
		"(`e`.`name` LIKE ?)", "(`e`.`description` LIKE ?)", "(`e`.`city` LIKE ?)",
		"(`e`.`country` LIKE ?)", "(`e`.`type` = ?)", "(`e`.`stars` = ?)",
		"JSON_OVERLAPS(`e`.`services`, CAST(? AS JSON))",
		" OR ",
	} {
		assert.Contains(t, sql, frag)
	}
	assert.Equal(t, []any{
		`%50\%\_off%`, `%50\%\_off%`, `%50\%\_off%`,
		"%Paris%", "%France%", "hotel", int64(4), `["wifi","pool"]`,
	}, args)
}

func TestRoomPredicate(t *testing.T) {
	minP, maxP := 50.0, 150.0
	minC, maxC := 2, 4
	avail := true
	sql, args := render(t, "rooms", roomPredicate(domain.RoomFilter{
		MinPrice: &minP, MaxPrice: &maxP, MinCapacity: &minC, MaxCapacity: &maxC,
		Available: &avail, AnyServices: []string{"tv"}, ExcludeIDs: []int64{3, 9},
	}))

	for _, frag := range []string{
		"(`r`.`price` >= ?)", "(`r`.`price` <= ?)",
		"(`r`.`capacity` >= ?)", "(`r`.`capacity` <= ?)",
		"(`r`.`available` = ?)",
		"JSON_OVERLAPS(`r`.`services`, CAST(? AS JSON))",
		"(`r`.`id` NOT IN (?, ?))",
	} {
		assert.Contains(t, sql, frag)
	}
	assert.NotContains(t, sql, " OR ")
	assert.Equal(t, []any{50.0, 150.0, int64(2), int64(4), int64(1), `["tv"]`, int64(3), int64(9)}, args)
}

func TestRoomPredicate_NoExclusionsNoClause(t *testing.T) {
	sql, _ := render(t, "rooms", roomPredicate(domain.RoomFilter{ExcludeIDs: []int64{}}))
	assert.NotContains(t, sql, "NOT IN")
}
