package models

import "time"

// ShopRecord is one motorcycle repair shop as parsed from the import file, ready to be stored
type ShopRecord struct {
	City         *string  `json:"city"`
	Name         *string  `json:"name"`
	Address      *string  `json:"address"`
	Rating       *float64 `json:"rating"`
	ReviewsCount int      `json:"reviews_count"`
	Phone        *string  `json:"phone"`
	Website      *string  `json:"website"`
	BusinessType *string  `json:"business_type"`
	Hours        *string  `json:"hours"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	PlaceID      string   `json:"place_id"`
	ScrapedAt    *string  `json:"scraped_at"`
}

// Shop is a stored shop row
type Shop struct {
	ID int64 `json:"id"`
	ShopRecord
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShopSummary is the name/city/rating projection used for samples
type ShopSummary struct {
	Name   *string  `json:"name"`
	City   *string  `json:"city"`
	Rating *float64 `json:"rating"`
}

// Stats aggregates a list of shops
type Stats struct {
	Total        int     `json:"total"`
	AvgRating    float64 `json:"avg_rating"`
	TotalReviews int     `json:"total_reviews"`
}

// Filter narrows a shop list. Zero values disable the corresponding filter
type Filter struct {
	Search    string
	City      string
	MinRating float64
}

// CityCount is the number of stored shops in one city
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}
