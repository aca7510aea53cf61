package domain

// EstablishmentFilter holds the optional clauses of the establishment fetch.
// A nil/empty field adds no clause.
type EstablishmentFilter struct {
	Text        *string // matched against name, description and city
	City        *string
	Country     *string
	Type        *PropertyType
	Stars       *int
	AnyServices []string
}

// RoomFilter holds the optional clauses of the room fetch.
type RoomFilter struct {
	MinPrice    *float64
	MaxPrice    *float64
	MinCapacity *int
	MaxCapacity *int
	Available   *bool
	AnyServices []string
	ExcludeIDs  []int64
}

// Keyset positions a fetch after the last seen primary key.
type Keyset struct {
	After *int64
	Limit int
}
