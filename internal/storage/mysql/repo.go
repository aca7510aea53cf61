package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	"github.com/doug-martin/goqu/v9/exp"

	"booking_search/internal/adapters/observability"
	"booking_search/internal/domain"
)

type Repo struct {
	db *sql.DB
	qb *goqu.Database
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db, qb: goqu.New("mysql", db)}
}

// firstImage is the earliest image of the row identified by owner. Room
// media also carry their establishment id, so establishment images are the
// rows without a room.
func (r *Repo) firstImage(col string, owner exp.IdentifierExpression) *goqu.SelectDataset {
	where := []exp.Expression{
		goqu.I("m." + col).Eq(owner),
		goqu.I("m.type").Eq(string(domain.MediaImage)),
	}
	if col == "establishment_id" {
		where = append(where, goqu.I("m.room_id").IsNull())
	}
	return r.qb.From(goqu.T("media").As("m")).
		Select(goqu.I("m.url")).
		Where(where...).
		Order(goqu.I("m.created_at").Asc(), goqu.I("m.id").Asc()).
		Limit(1)
}

func (r *Repo) establishmentsQuery(f domain.EstablishmentFilter, page domain.Keyset) *goqu.SelectDataset {
	ds := r.qb.From(goqu.T("establishments").As("e")).
		Select(
			goqu.I("e.id"), goqu.I("e.name"), goqu.I("e.description"),
			goqu.I("e.city"), goqu.I("e.country"), goqu.I("e.type"), goqu.I("e.stars"),
			r.firstImage("establishment_id", goqu.I("e.id")).As("image"),
		).
		Where(establishmentPredicate(f))
	if page.After != nil {
		ds = ds.Where(goqu.I("e.id").Gt(*page.After))
	}
	return ds.Order(goqu.I("e.id").Asc()).Limit(uint(page.Limit)).Prepared(true)
}

func (r *Repo) roomsQuery(f domain.RoomFilter, page domain.Keyset) *goqu.SelectDataset {
	ds := r.qb.From(goqu.T("rooms").As("r")).
		InnerJoin(goqu.T("establishments").As("e"), goqu.On(goqu.I("e.id").Eq(goqu.I("r.establishment_id")))).
		Select(
			goqu.I("r.id"), goqu.I("r.name"), goqu.I("r.description"),
			goqu.I("r.price"), goqu.I("r.capacity"),
			goqu.I("e.id"), goqu.I("e.name"),
			goqu.I("e.city"), goqu.I("e.country"), goqu.I("e.type"), goqu.I("e.stars"),
			r.firstImage("room_id", goqu.I("r.id")).As("image"),
		).
		Where(roomPredicate(f))
	if page.After != nil {
		ds = ds.Where(goqu.I("r.id").Gt(*page.After))
	}
	return ds.Order(goqu.I("r.id").Asc()).Limit(uint(page.Limit)).Prepared(true)
}

func (r *Repo) FindEstablishments(ctx context.Context, f domain.EstablishmentFilter, page domain.Keyset) ([]domain.EstablishmentResult, error) {
	defer observeQuery("find_establishments", time.Now())

	query, args, err := r.establishmentsQuery(f, page).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build establishments query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query establishments: %w", err)
	}
	defer rows.Close()

	var out []domain.EstablishmentResult
	for rows.Next() {
		var (
			e     domain.EstablishmentResult
			typ   string
			stars sql.NullInt64
			image sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.City, &e.Country, &typ, &stars, &image); err != nil {
			return nil, fmt.Errorf("scan establishment: %w", err)
		}
		e.Type = domain.PropertyType(typ)
		e.Stars = nullInt(stars)
		e.Image = nullString(image)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate establishments: %w", err)
	}
	return out, nil
}

func (r *Repo) FindRooms(ctx context.Context, f domain.RoomFilter, page domain.Keyset) ([]domain.RoomResult, error) {
	defer observeQuery("find_rooms", time.Now())

	query, args, err := r.roomsQuery(f, page).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build rooms query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	var out []domain.RoomResult
	for rows.Next() {
		var (
			rm    domain.RoomResult
			typ   string
			stars sql.NullInt64
			image sql.NullString
		)
		if err := rows.Scan(
			&rm.ID, &rm.Name, &rm.Description,
			&rm.Price, &rm.Capacity,
			&rm.EstablishmentID, &rm.EstablishmentName,
			&rm.City, &rm.Country, &typ, &stars,
			&image,
		); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rm.Type = domain.PropertyType(typ)
		rm.Stars = nullInt(stars)
		rm.Image = nullString(image)
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}
	return out, nil
}

func (r *Repo) reservedRoomsQuery(checkIn, checkOut time.Time) *goqu.SelectDataset {
	return r.qb.From("reservations").
		SelectDistinct("room_id").
		Where(
			goqu.C("status").Eq(string(domain.ReservationConfirmed)),
			goqu.C("start_date").Lt(checkOut),
			goqu.C("end_date").Gt(checkIn),
		).
		Order(goqu.C("room_id").Asc()).
		Prepared(true)
}

// ReservedRoomIDs applies the strict overlap rule: a confirmed stay
// [start, end) blocks [checkIn, checkOut) iff checkIn < end and checkOut > start.
func (r *Repo) ReservedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) ([]int64, error) {
	defer observeQuery("reserved_rooms", time.Now())

	query, args, err := r.reservedRoomsQuery(checkIn, checkOut).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build reservations query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repo) UpsertEstablishment(ctx context.Context, e domain.Establishment) error {
	services, _ := json.Marshal(nonNil(e.Services))
	_, err := r.db.ExecContext(ctx, upsertEstablishmentSQL,
		e.ID, e.Name, e.Description, e.City, e.Country, string(e.Type),
		valInt(e.Stars), string(services),
	)
	return err
}

func (r *Repo) UpsertRoom(ctx context.Context, rm domain.Room) error {
	services, _ := json.Marshal(nonNil(rm.Services))
	_, err := r.db.ExecContext(ctx, upsertRoomSQL,
		rm.ID, rm.EstablishmentID, rm.Name, rm.Description,
		rm.Price, rm.Capacity, rm.Available, string(services),
	)
	return err
}

func (r *Repo) UpsertMedia(ctx context.Context, establishmentID int64, roomID *int64, m domain.Media) error {
	var created any
	if !m.CreatedAt.IsZero() {
		created = m.CreatedAt.UTC()
	}
	var room any
	if roomID != nil {
		room = *roomID
	}
	_, err := r.db.ExecContext(ctx, upsertMediaSQL, m.ID, establishmentID, room, m.URL, string(m.Type), created)
	return err
}

func (r *Repo) UpsertReservation(ctx context.Context, res domain.Reservation) error {
	_, err := r.db.ExecContext(ctx, upsertReservationSQL,
		res.ID, res.RoomID, res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"), string(res.Status),
	)
	return err
}

func observeQuery(name string, start time.Time) {
	observability.ObserveStoreQuery(name, time.Since(start))
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
