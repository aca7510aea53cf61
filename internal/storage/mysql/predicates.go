package mysql

import (
	"encoding/json"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"booking_search/internal/domain"
)

// likeEscaper neutralises LIKE wildcards in user text; backslash is MySQL's
// default escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func contains(s string) string { return "%" + likeEscaper.Replace(s) + "%" }

// anyService matches rows whose JSON services column shares a tag with tags.
func anyService(col string, tags []string) exp.Expression {
	b, _ := json.Marshal(tags)
	return goqu.L("JSON_OVERLAPS(?, CAST(? AS JSON))", goqu.I(col), string(b))
}

// Text clauses use ILike: goqu's mysql dialect renders Like as LIKE BINARY,
// while ILike keeps the column collation (case and accent insensitive).

// establishmentPredicate folds the filter's present clauses into one AND.
// An empty filter yields an empty list, which goqu renders as no WHERE.
func establishmentPredicate(f domain.EstablishmentFilter) exp.ExpressionList {
	var clauses []exp.Expression
	if f.Text != nil {
		p := contains(*f.Text)
		clauses = append(clauses, goqu.Or(
			goqu.I("e.name").ILike(p),
			goqu.I("e.description").ILike(p),
			goqu.I("e.city").ILike(p),
		))
	}
	if f.City != nil {
		clauses = append(clauses, goqu.I("e.city").ILike(contains(*f.City)))
	}
	if f.Country != nil {
		clauses = append(clauses, goqu.I("e.country").ILike(contains(*f.Country)))
	}
	if f.Type != nil {
		clauses = append(clauses, goqu.I("e.type").Eq(string(*f.Type)))
	}
	if f.Stars != nil {
		clauses = append(clauses, goqu.I("e.stars").Eq(*f.Stars))
	}
	if len(f.AnyServices) > 0 {
		clauses = append(clauses, anyService("e.services", f.AnyServices))
	}
	return goqu.And(clauses...)
}

func roomPredicate(f domain.RoomFilter) exp.ExpressionList {
	var clauses []exp.Expression
	if f.MinPrice != nil {
		clauses = append(clauses, goqu.I("r.price").Gte(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, goqu.I("r.price").Lte(*f.MaxPrice))
	}
	if f.MinCapacity != nil {
		clauses = append(clauses, goqu.I("r.capacity").Gte(*f.MinCapacity))
	}
	if f.MaxCapacity != nil {
		clauses = append(clauses, goqu.I("r.capacity").Lte(*f.MaxCapacity))
	}
	if f.Available != nil {
		avail := 0
		if *f.Available {
			avail = 1
		}
		clauses = append(clauses, goqu.I("r.available").Eq(avail))
	}
	if len(f.AnyServices) > 0 {
		clauses = append(clauses, anyService("r.services", f.AnyServices))
	}
	if len(f.ExcludeIDs) > 0 {
		clauses = append(clauses, goqu.I("r.id").NotIn(f.ExcludeIDs))
	}
	return goqu.And(clauses...)
}
