package app

// Human-facing service labels, as shown by the listing forms, mapped to
// internal tags. Each table only holds tags owned by its entity.
var establishmentServiceLabels = map[string]string{
	"Wi-Fi gratuit":  "wifi",
	"Parking":        "parking",
	"Piscine":        "pool",
	"Spa":            "spa",
	"Restaurant":     "restaurant",
	"Salle de sport": "gym",
	"Petit-déjeuner": "breakfast",
}

var roomServiceLabels = map[string]string{
	"Coffre-fort": "safe",
	"Mini-bar":    "minibar",
	"Télévision":  "tv",
	"Balcon":      "balcony",
	"Baignoire":   "tub",
	"Douche":      "shower",
}

type serviceOwner int

const (
	ownedByEstablishment serviceOwner = iota + 1
	ownedByRoom
)

var serviceOwners = map[string]serviceOwner{
	"wifi":       ownedByEstablishment,
	"parking":    ownedByEstablishment,
	"pool":       ownedByEstablishment,
	"spa":        ownedByEstablishment,
	"restaurant": ownedByEstablishment,
	"gym":        ownedByEstablishment,
	"breakfast":  ownedByEstablishment,
	"safe":       ownedByRoom,
	"minibar":    ownedByRoom,
	"tv":         ownedByRoom,
	"balcony":    ownedByRoom,
	"tub":        ownedByRoom,
	"shower":     ownedByRoom,
}

// labelIndex resolves labels regardless of case and accents ("wi-fi GRATUIT").
var labelIndex = func() map[string]string {
	idx := make(map[string]string, len(establishmentServiceLabels)+len(roomServiceLabels))
	for _, table := range []map[string]string{establishmentServiceLabels, roomServiceLabels} {
		for label, tag := range table {
			idx[fold(label)] = tag
		}
	}
	return idx
}()

// LabelsToTags maps labels to tags. Unknown labels are dropped.
func LabelsToTags(labels []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		tag, ok := labelIndex[fold(l)]
		if !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// SplitServiceTags partitions tags by owning entity, keeping input order.
// Unknown tags are dropped.
func SplitServiceTags(tags []string) (establishment, room []string) {
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		switch serviceOwners[t] {
		case ownedByEstablishment:
			establishment = append(establishment, t)
		case ownedByRoom:
			room = append(room, t)
		}
	}
	return establishment, room
}
