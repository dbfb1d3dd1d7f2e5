// Package report prints a read-only summary of the stored shop table: the total
// row count, the cities with the most shops, and a small sample of rows.
//
// The three queries are independent. A failure in one is printed and recorded
// in the returned Report, and the remaining queries still run.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"motoshop-directory/internal/models"

	"github.com/rs/zerolog"
)

// TopCities is how many cities the city breakdown prints.
const TopCities = 10

// DefaultSampleSize is how many sample rows are printed.
const DefaultSampleSize = 5

// Store is the read side of the shop table the reporter needs.
type Store interface {
	CountShops(ctx context.Context) (int, error)
	ListCities(ctx context.Context) ([]string, error)
	SampleShops(ctx context.Context, limit int) ([]models.ShopSummary, error)
}

// Report holds what the reporter found. Err fields are set when a query failed.
type Report struct {
	Total     int
	TotalErr  error
	Cities    []models.CityCount
	CitiesErr error
	Sample    []models.ShopSummary
	SampleErr error
}

// Reporter queries the store and writes a human readable summary.
type Reporter struct {
	store      Store
	out        io.Writer
	sampleSize int
	timeout    time.Duration
	log        zerolog.Logger
}

// New creates a reporter writing to out. A zero timeout disables per-query deadlines.
func New(store Store, out io.Writer, sampleSize int, timeout time.Duration, log zerolog.Logger) *Reporter {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &Reporter{store: store, out: out, sampleSize: sampleSize, timeout: timeout, log: log}
}

// Run executes the count, city and sample queries in order and prints each section.
func (r *Reporter) Run(ctx context.Context) Report {
	var rep Report

	fmt.Fprintln(r.out, "Checking database...")
	fmt.Fprintln(r.out)

	r.query(ctx, func(ctx context.Context) {
		rep.Total, rep.TotalErr = r.store.CountShops(ctx)
	})
	if rep.TotalErr != nil {
		r.fail("count", rep.TotalErr)
	} else {
		fmt.Fprintf(r.out, "Total records in database: %d\n", rep.Total)
	}

	var cities []string
	r.query(ctx, func(ctx context.Context) {
		cities, rep.CitiesErr = r.store.ListCities(ctx)
	})
	if rep.CitiesErr != nil {
		r.fail("cities", rep.CitiesErr)
	} else {
		rep.Cities = CountByCity(cities, TopCities)
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Records by city:")
		for _, cc := range rep.Cities {
			fmt.Fprintf(r.out, "  %s: %d\n", displayCity(cc.City), cc.Count)
		}
	}

	r.query(ctx, func(ctx context.Context) {
		rep.Sample, rep.SampleErr = r.store.SampleShops(ctx, r.sampleSize)
	})
	if rep.SampleErr != nil {
		r.fail("sample", rep.SampleErr)
	} else {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Sample records:")
		for _, s := range rep.Sample {
			fmt.Fprintf(r.out, "  - %s (%s) - %s\n", deref(s.Name), displayCity(deref(s.City)), displayRating(s.Rating))
		}
	}

	return rep
}

func (r *Reporter) query(ctx context.Context, fn func(ctx context.Context)) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	fn(ctx)
}

func (r *Reporter) fail(section string, err error) {
	r.log.Error().Err(err).Str("query", section).Msg("verification query failed")
	fmt.Fprintf(r.out, "Error (%s): %v\n", section, err)
}

// CountByCity groups city values and returns the top n by descending count.
// Ties keep the order in which cities first appear.
func CountByCity(cities []string, n int) []models.CityCount {
	index := make(map[string]int)
	var counts []models.CityCount
	for _, city := range cities {
		if i, ok := index[city]; ok {
			counts[i].Count++
			continue
		}
		index[city] = len(counts)
		counts = append(counts, models.CityCount{City: city, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func displayCity(city string) string {
	if city == "" {
		return "(no city)"
	}
	return city
}

func displayRating(rating *float64) string {
	if rating == nil || *rating == 0 {
		return "No rating"
	}
	return strconv.FormatFloat(*rating, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
