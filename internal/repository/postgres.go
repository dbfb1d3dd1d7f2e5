package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motoshop-directory/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// DefaultTable is the table shops are stored in
const DefaultTable = "motorcycle_shops"

// isoLayout matches the canonical scraped_at text produced by the importer
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

var insertColumns = []string{
	"city", "name", "address", "rating", "reviews_count", "phone", "website",
	"business_type", "hours", "latitude", "longitude", "place_id", "scraped_at",
}

const selectColumns = `
	id, city, name, address, rating, reviews_count, phone, website,
	business_type, hours, latitude, longitude, place_id, scraped_at,
	created_at, updated_at`

// Repository implements shop storage on PostgreSQL
type Repository struct {
	db    *pgxpool.Pool
	table string
}

// NewRepository creates a new PostgreSQL repository for the given table
func NewRepository(db *pgxpool.Pool, table string) *Repository {
	if table == "" {
		table = DefaultTable
	}
	return &Repository{db: db, table: table}
}

func (r *Repository) quotedTable() string {
	return pq.QuoteIdentifier(r.table)
}

// EnsureSchema creates the shops table and its indexes if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	t := r.quotedTable()
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id BIGSERIAL PRIMARY KEY,
		city TEXT,
		name TEXT,
		address TEXT,
		rating DOUBLE PRECISION,
		reviews_count INTEGER NOT NULL DEFAULT 0,
		phone TEXT,
		website TEXT,
		business_type TEXT,
		hours TEXT,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		place_id TEXT NOT NULL DEFAULT '',
		scraped_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (city);
	CREATE INDEX IF NOT EXISTS %[3]s ON %[1]s (rating DESC NULLS LAST);
	`, t, pq.QuoteIdentifier(r.table+"_city_idx"), pq.QuoteIdentifier(r.table+"_rating_idx"))

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// InsertShops writes one batch with the COPY protocol and returns the number of rows stored
func (r *Repository) InsertShops(ctx context.Context, records []models.ShopRecord) (int, error) {
	n, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{r.table},
		insertColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			scrapedAt, err := parseScrapedAt(rec.ScrapedAt)
			if err != nil {
				return nil, err
			}
			return []any{
				rec.City, rec.Name, rec.Address, rec.Rating, rec.ReviewsCount, rec.Phone, rec.Website,
				rec.BusinessType, rec.Hours, rec.Latitude, rec.Longitude, rec.PlaceID, scrapedAt,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert shops: %w", err)
	}
	return int(n), nil
}

// ListShops returns up to limit shops, best rated first with unrated shops last
func (r *Repository) ListShops(ctx context.Context, limit int) ([]models.Shop, error) {
	sql := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY rating DESC NULLS LAST, id
		LIMIT $1
	`, selectColumns, r.quotedTable())

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute list query: %w", err)
	}
	defer rows.Close()

	shops := []models.Shop{}
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan shop: %w", err)
		}
		shops = append(shops, shop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return shops, nil
}

// CountShops returns the number of stored shops
func (r *Repository) CountShops(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", r.quotedTable())).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to count shops: %w", err)
	}
	return count, nil
}

// ListCities returns the city column of every shop ordered by city. NULL cities are returned as ""
func (r *Repository) ListCities(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT COALESCE(city, '') FROM %s ORDER BY city", r.quotedTable()))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute city query: %w", err)
	}

	cities, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("repository: failed to collect cities: %w", err)
	}
	return cities, nil
}

// SampleShops returns up to limit name/city/rating triples
func (r *Repository) SampleShops(ctx context.Context, limit int) ([]models.ShopSummary, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT name, city, rating FROM %s LIMIT $1", r.quotedTable()), limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute sample query: %w", err)
	}
	defer rows.Close()

	var sample []models.ShopSummary
	for rows.Next() {
		var s models.ShopSummary
		if err := rows.Scan(&s.Name, &s.City, &s.Rating); err != nil {
			return nil, fmt.Errorf("repository: failed to scan sample: %w", err)
		}
		sample = append(sample, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return sample, nil
}

// FindNearestShop returns the shop with coordinates closest to the given point, or nil if none has coordinates
func (r *Repository) FindNearestShop(ctx context.Context, lat, lon float64) (*models.Shop, error) {
	// equirectangular distance is enough to rank candidates
	sql := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY power(latitude - $1, 2) + power((longitude - $2) * cos(radians($1)), 2)
		LIMIT 1
	`, selectColumns, r.quotedTable())

	shop, err := scanShop(r.db.QueryRow(ctx, sql, lat, lon))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to execute nearest query: %w", err)
	}

	return &shop, nil
}

func scanShop(row pgx.Row) (models.Shop, error) {
	var (
		shop      models.Shop
		scrapedAt *time.Time
	)
	err := row.Scan(
		&shop.ID,
		&shop.City,
		&shop.Name,
		&shop.Address,
		&shop.Rating,
		&shop.ReviewsCount,
		&shop.Phone,
		&shop.Website,
		&shop.BusinessType,
		&shop.Hours,
		&shop.Latitude,
		&shop.Longitude,
		&shop.PlaceID,
		&scrapedAt,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)
	if err != nil {
		return models.Shop{}, err
	}

	if scrapedAt != nil {
		s := scrapedAt.UTC().Format(isoLayout)
		shop.ScrapedAt = &s
	}
	return shop, nil
}

func parseScrapedAt(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid scraped_at %q: %w", *s, err)
	}
	return &t, nil
}
