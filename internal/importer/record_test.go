package importer

import (
	"errors"
	"testing"

	"motoshop-directory/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestBuildRecord_PartialHeader(t *testing.T) {
	rec, err := BuildRecord([]string{"city", "name", "rating"}, []string{"Berlin", "Moto Shop", "4.5"})
	require.NoError(t, err)

	assert.Equal(t, models.ShopRecord{
		City:   strPtr("Berlin"),
		Name:   strPtr("Moto Shop"),
		Rating: floatPtr(4.5),
	}, rec)
}

func TestBuildRecord_FullRow(t *testing.T) {
	row := []string{
		"Madrid", "Taller Moto", "Calle Mayor 1", "4.8", "132", "+34 91 123 45 67",
		"https://taller.example", "Motorcycle repair shop", "N/A", "40.4168", "-3.7038",
		"ChIJ123", "2025-10-01 12:30:00",
	}

	rec, err := BuildRecord(Columns, row)
	require.NoError(t, err)

	assert.Equal(t, models.ShopRecord{
		City:         strPtr("Madrid"),
		Name:         strPtr("Taller Moto"),
		Address:      strPtr("Calle Mayor 1"),
		Rating:       floatPtr(4.8),
		ReviewsCount: 132,
		Phone:        strPtr("+34 91 123 45 67"),
		Website:      strPtr("https://taller.example"),
		BusinessType: strPtr("Motorcycle repair shop"),
		Hours:        nil,
		Latitude:     floatPtr(40.4168),
		Longitude:    floatPtr(-3.7038),
		PlaceID:      "ChIJ123",
		ScrapedAt:    strPtr("2025-10-01T12:30:00.000Z"),
	}, rec)
}

func TestBuildRecord_FieldPolicies(t *testing.T) {
	header := []string{"name", "address", "reviews_count", "place_id", "scraped_at"}

	rec, err := BuildRecord(header, []string{"1000", " 10115 ", "abc", "", ""})
	require.NoError(t, err)

	assert.Equal(t, strPtr("1000"), rec.Name, "numeric-looking text column keeps its digits")
	assert.Equal(t, strPtr("10115"), rec.Address)
	assert.Equal(t, 0, rec.ReviewsCount)
	assert.Equal(t, "", rec.PlaceID, "place_id is not normalized to null")
	assert.Nil(t, rec.ScrapedAt)
}

func TestBuildRecord_NumericColumnAcceptsNonCanonicalNumbers(t *testing.T) {
	rec, err := BuildRecord([]string{"rating", "latitude", "longitude"}, []string{"4.50", "4.0", "1e1"})
	require.NoError(t, err)

	assert.Equal(t, floatPtr(4.5), rec.Rating)
	assert.Equal(t, floatPtr(4), rec.Latitude)
	assert.Equal(t, floatPtr(10), rec.Longitude)
}

func TestBuildRecord_PlaceIDVerbatim(t *testing.T) {
	rec, err := BuildRecord([]string{"place_id"}, []string{" N/A "})
	require.NoError(t, err)
	assert.Equal(t, " N/A ", rec.PlaceID)
}

func TestBuildRecord_Errors(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		row    []string
		target error
	}{
		{name: "short row", header: []string{"city", "name", "rating"}, row: []string{"Berlin", "Moto Shop"}, target: ErrColumnCount},
		{name: "text in numeric column", header: []string{"rating"}, row: []string{"great"}, target: ErrNotNumeric},
		{name: "bad timestamp", header: []string{"scraped_at"}, row: []string{"yesterday"}, target: ErrInvalidTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRecord(tt.header, tt.row)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := map[string]int{
		"":      0,
		"42":    42,
		" 42":   42,
		"42 ":   42,
		"4.7":   4,
		"1,234": 1,
		"12abc": 12,
		"abc":   0,
		"N/A":   0,
		"+7":    7,
		"-5":    0,
		"-":     0,
	}
	tests["999999999999999999999999"] = 0

	for raw, expected := range tests {
		assert.Equal(t, expected, ParseCount(raw), "ParseCount(%q)", raw)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw      string
		expected *string
	}{
		{raw: "", expected: nil},
		{raw: " 2025-10-01T12:30:00Z", expected: strPtr("2025-10-01T12:30:00.000Z")},
		{raw: "2025-10-01T12:30:00Z", expected: strPtr("2025-10-01T12:30:00.000Z")},
		{raw: "2025-10-01T14:30:00+02:00", expected: strPtr("2025-10-01T12:30:00.000Z")},
		{raw: "2025-10-01T12:30:00.123456", expected: strPtr("2025-10-01T12:30:00.123Z")},
		{raw: "2025-10-01 12:30:00", expected: strPtr("2025-10-01T12:30:00.000Z")},
		{raw: "2025-10-01", expected: strPtr("2025-10-01T00:00:00.000Z")},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.expected, got, tt.raw)
	}

	for _, raw := range []string{"01/10/2025 noon", "   ", "\t"} {
		_, err := ParseTimestamp(raw)
		assert.ErrorIs(t, err, ErrInvalidTimestamp, "ParseTimestamp(%q)", raw)
	}
}

func TestBuildRecord_QuotedBlankTimestampIsLineError(t *testing.T) {
	row := SplitLine(`Berlin,Moto,Street 1,4.5,3,,,,,52.5,13.4,p1," "`, delimiter)

	_, err := BuildRecord(Columns, row)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
	assert.ErrorContains(t, err, "scraped_at")
}
