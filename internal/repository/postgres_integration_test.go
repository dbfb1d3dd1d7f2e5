//go:build integration

package repository

import (
	"context"
	"testing"

	"motoshop-directory/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		postgresC.Terminate(ctx)
	})

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)

	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestRepository_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool, "")
	ctx := context.Background()

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema creation is idempotent")

	records := []models.ShopRecord{
		{City: strPtr("Berlin"), Name: strPtr("Kreuzberg Moto"), Rating: floatPtr(4.2), ReviewsCount: 10,
			Latitude: floatPtr(52.4986), Longitude: floatPtr(13.4030), PlaceID: "p1",
			ScrapedAt: strPtr("2025-10-01T12:30:00.000Z")},
		{City: strPtr("Berlin"), Name: strPtr("Mitte Bikes"), Rating: floatPtr(4.8), ReviewsCount: 3, PlaceID: "p2"},
		{City: strPtr("Paris"), Name: strPtr("Moto Paris"), ReviewsCount: 0, PlaceID: "p3",
			Latitude: floatPtr(48.8566), Longitude: floatPtr(2.3522)},
	}

	n, err := repo.InsertShops(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	t.Run("count", func(t *testing.T) {
		count, err := repo.CountShops(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("list ordered by rating with nulls last", func(t *testing.T) {
		shops, err := repo.ListShops(ctx, 10)
		require.NoError(t, err)
		require.Len(t, shops, 3)
		assert.Equal(t, "Mitte Bikes", *shops[0].Name)
		assert.Equal(t, "Kreuzberg Moto", *shops[1].Name)
		assert.Nil(t, shops[2].Rating)
		assert.Equal(t, "2025-10-01T12:30:00.000Z", *shops[1].ScrapedAt)

		limited, err := repo.ListShops(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("cities", func(t *testing.T) {
		cities, err := repo.ListCities(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Berlin", "Berlin", "Paris"}, cities)
	})

	t.Run("sample", func(t *testing.T) {
		sample, err := repo.SampleShops(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, sample, 2)
	})

	t.Run("nearest", func(t *testing.T) {
		shop, err := repo.FindNearestShop(ctx, 48.85, 2.35)
		require.NoError(t, err)
		require.NotNil(t, shop)
		assert.Equal(t, "Moto Paris", *shop.Name)
	})
}

func TestRepository_NearestWithoutCoordinates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool, "shops_empty")
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	shop, err := repo.FindNearestShop(ctx, 52.52, 13.40)
	require.NoError(t, err)
	assert.Nil(t, shop)
}
