package importer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"motoshop-directory/internal/models"
)

var (
	// ErrColumnCount is returned when a row does not have one value per header column.
	ErrColumnCount = errors.New("column count mismatch")
	// ErrNotNumeric is returned when a numeric column holds non-numeric text.
	ErrNotNumeric = errors.New("value is not numeric")
	// ErrInvalidTimestamp is returned when scraped_at is not a recognizable date.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// ISOLayout is the canonical form scraped_at is stored in.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// column binds one schema column to how its raw cell is converted.
type column struct {
	name  string
	apply func(rec *models.ShopRecord, raw string) error
}

// Columns lists the import file columns in their expected order.
var Columns = []string{
	"city", "name", "address", "rating", "reviews_count", "phone", "website",
	"business_type", "hours", "latitude", "longitude", "place_id", "scraped_at",
}

var schema = []column{
	{"city", text(func(r *models.ShopRecord, v *string) { r.City = v })},
	{"name", text(func(r *models.ShopRecord, v *string) { r.Name = v })},
	{"address", text(func(r *models.ShopRecord, v *string) { r.Address = v })},
	{"rating", number(func(r *models.ShopRecord, v *float64) { r.Rating = v })},
	{"reviews_count", func(r *models.ShopRecord, raw string) error {
		r.ReviewsCount = ParseCount(raw)
		return nil
	}},
	{"phone", text(func(r *models.ShopRecord, v *string) { r.Phone = v })},
	{"website", text(func(r *models.ShopRecord, v *string) { r.Website = v })},
	{"business_type", text(func(r *models.ShopRecord, v *string) { r.BusinessType = v })},
	{"hours", text(func(r *models.ShopRecord, v *string) { r.Hours = v })},
	{"latitude", number(func(r *models.ShopRecord, v *float64) { r.Latitude = v })},
	{"longitude", number(func(r *models.ShopRecord, v *float64) { r.Longitude = v })},
	{"place_id", func(r *models.ShopRecord, raw string) error {
		r.PlaceID = raw
		return nil
	}},
	{"scraped_at", func(r *models.ShopRecord, raw string) error {
		ts, err := ParseTimestamp(raw)
		if err != nil {
			return err
		}
		r.ScrapedAt = ts
		return nil
	}},
}

// text keeps the normalized value as text; a value that normalizes to a number
// keeps its input digits since the round-trip guard guarantees they are equal.
func text(set func(*models.ShopRecord, *string)) func(*models.ShopRecord, string) error {
	return func(r *models.ShopRecord, raw string) error {
		v := Normalize(raw)
		if v.Kind == KindNull {
			set(r, nil)
			return nil
		}
		s := v.String()
		set(r, &s)
		return nil
	}
}

func number(set func(*models.ShopRecord, *float64)) func(*models.ShopRecord, string) error {
	return func(r *models.ShopRecord, raw string) error {
		v := Normalize(raw)
		switch v.Kind {
		case KindNull:
			set(r, nil)
		case KindNumber:
			n := v.Num
			set(r, &n)
		default:
			// non-canonical numerals such as "4.50" or "1e3" are still numbers here
			n, err := strconv.ParseFloat(v.Text, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return fmt.Errorf("%w: %q", ErrNotNumeric, v.Text)
			}
			set(r, &n)
		}
		return nil
	}
}

// BuildRecord zips header names with row values and converts each schema column.
// Header names outside the schema are ignored; schema columns absent from the
// header are treated as empty cells.
func BuildRecord(header, row []string) (models.ShopRecord, error) {
	var rec models.ShopRecord
	if len(header) != len(row) {
		return rec, fmt.Errorf("%w: expected %d, got %d", ErrColumnCount, len(header), len(row))
	}

	cells := make(map[string]string, len(header))
	for i, name := range header {
		cells[name] = row[i]
	}

	for _, col := range schema {
		if err := col.apply(&rec, cells[col.name]); err != nil {
			return models.ShopRecord{}, fmt.Errorf("%s: %w", col.name, err)
		}
	}

	return rec, nil
}

// ParseCount reads the leading base-10 integer of raw, ignoring anything after it.
// Empty, non-numeric, negative or overflowing input yields 0.
func ParseCount(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseTimestamp converts a date/time cell into the canonical ISO form in UTC.
// Only an empty cell is null; anything else that is not a recognizable date,
// whitespace included, is ErrInvalidTimestamp.
func ParseTimestamp(raw string) (*string, error) {
	if raw == "" {
		return nil, nil
	}
	s := strings.TrimSpace(raw)

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			iso := t.UTC().Format(ISOLayout)
			return &iso, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}
