package app

import (
	_ "embed"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"booking_search/internal/domain"
)

//go:embed query.schema.json
var querySchemaJSON string

var querySchema = func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.AssertFormat = true
	if err := c.AddResource("query.schema.json", strings.NewReader(querySchemaJSON)); err != nil {
		panic(err)
	}
	return c.MustCompile("query.schema.json")
}()

const dateLayout = "2006-01-02"

// ValidateQuery turns an untyped search record into a Query. It performs no I/O.
func ValidateQuery(raw map[string]any) (domain.Query, error) {
	doc := normalizeRecord(raw)
	if err := querySchema.Validate(doc); err != nil {
		return domain.Query{}, schemaError(err)
	}

	var q domain.Query
	q.Destination = textField(doc, "destination")
	q.City = textField(doc, "city")
	q.Country = textField(doc, "country")
	if s := textField(doc, "type"); s != nil {
		t := domain.PropertyType(*s)
		q.Type = &t
	}
	if labels, ok := doc["services"].([]any); ok {
		ls := make([]string, 0, len(labels))
		for _, l := range labels {
			ls = append(ls, l.(string))
		}
		q.Services = LabelsToTags(ls)
	}
	q.Stars = intField(doc, "stars")
	q.MinPrice = floatField(doc, "minPrice")
	q.MaxPrice = floatField(doc, "maxPrice")
	q.MinCapacity = intField(doc, "minCapacity")
	q.MaxCapacity = intField(doc, "maxCapacity")
	q.Adults = intField(doc, "adults")
	q.Children = intField(doc, "children")
	if b, ok := doc["available"].(bool); ok {
		q.Available = &b
	}

	var err error
	if q.CheckIn, err = dateField(doc, "checkIn"); err != nil {
		return domain.Query{}, err
	}
	if q.CheckOut, err = dateField(doc, "checkOut"); err != nil {
		return domain.Query{}, err
	}

	if q.HasStay() && !q.CheckOut.After(*q.CheckIn) {
		return domain.Query{}, domain.NewValidationError(domain.InvalidDateOrder, "checkOut", "must be after checkIn")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return domain.Query{}, domain.NewValidationError(domain.InvalidPriceOrder, "maxPrice", "must be greater than or equal to minPrice")
	}
	return q, nil
}

func textField(doc map[string]any, k string) *string {
	if s, ok := doc[k].(string); ok {
		return &s
	}
	return nil
}

func floatField(doc map[string]any, k string) *float64 {
	if f, ok := doc[k].(float64); ok {
		return &f
	}
	return nil
}

func intField(doc map[string]any, k string) *int {
	if f, ok := doc[k].(float64); ok {
		n := int(f)
		return &n
	}
	return nil
}

func dateField(doc map[string]any, k string) (*time.Time, error) {
	s, ok := doc[k].(string)
	if !ok {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, domain.NewValidationError(domain.InvalidFormat, k, "must be a date (YYYY-MM-DD)")
	}
	return &t, nil
}

var rangeKeywords = map[string]bool{
	"minimum": true, "maximum": true,
	"exclusiveMinimum": true, "exclusiveMaximum": true,
	"minLength": true, "maxLength": true,
	"minItems": true, "maxItems": true,
}

// schemaError reduces a schema failure to its first leaf, by instance path.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return domain.NewValidationError(domain.InvalidFormat, "query", err.Error())
	}
	leaves := collectLeaves(ve, nil)
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].InstanceLocation < leaves[j].InstanceLocation
	})
	leaf := leaves[0]

	field := strings.TrimLeft(leaf.InstanceLocation, "#/")
	if i := strings.IndexByte(field, '/'); i >= 0 {
		field = field[:i] // services/3 -> services
	}
	if field == "" {
		field = "query"
	}
	kw := leaf.KeywordLocation
	if i := strings.LastIndexByte(kw, '/'); i >= 0 {
		kw = kw[i+1:]
	}
	kind := domain.InvalidFormat
	if rangeKeywords[kw] {
		kind = domain.OutOfRange
	}
	return domain.NewValidationError(kind, field, leaf.Message)
}

func collectLeaves(ve *jsonschema.ValidationError, acc []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return append(acc, ve)
	}
	for _, c := range ve.Causes {
		acc = collectLeaves(c, acc)
	}
	return acc
}
