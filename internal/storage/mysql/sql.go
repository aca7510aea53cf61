package mysql

// Catalog upserts used by cmd/seed. Reads are built with goqu in repo.go.

const upsertEstablishmentSQL = `
INSERT INTO establishments
  (id, name, description, city, country, type, stars, services)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name        = VALUES(name),
  description = VALUES(description),
  city        = VALUES(city),
  country     = VALUES(country),
  type        = VALUES(type),
  stars       = VALUES(stars),
  services    = VALUES(services),
  updated_at  = CURRENT_TIMESTAMP
`

const upsertRoomSQL = `
INSERT INTO rooms
  (id, establishment_id, name, description, price, capacity, available, services)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  establishment_id = VALUES(establishment_id),
  name             = VALUES(name),
  description      = VALUES(description),
  price            = VALUES(price),
  capacity         = VALUES(capacity),
  available        = VALUES(available),
  services         = VALUES(services),
  updated_at       = CURRENT_TIMESTAMP
`

// created_at falls back to now when the fixture has no timestamp.
const upsertMediaSQL = `
INSERT INTO media
  (id, establishment_id, room_id, url, type, created_at)
VALUES
  (?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))
ON DUPLICATE KEY UPDATE
  establishment_id = VALUES(establishment_id),
  room_id          = VALUES(room_id),
  url              = VALUES(url),
  type             = VALUES(type)
`

const upsertReservationSQL = `
INSERT INTO reservations
  (id, room_id, start_date, end_date, status)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  room_id    = VALUES(room_id),
  start_date = VALUES(start_date),
  end_date   = VALUES(end_date),
  status     = VALUES(status)
`
