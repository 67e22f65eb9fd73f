package models

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"bizfinder/models"
)

// Business is the canonical record for one real-world business. It starts
// out as a single provider listing and grows as equal listings from other
// providers are merged into it.
//
// Scalar fields use the empty string for "unknown".
type Business struct {
	Name        string             `json:"name"`
	Coordinates models.Coordinates `json:"coordinates"`

	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Country       string `json:"country,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	TwitterHandle string `json:"twitter,omitempty"`
	Website       string `json:"website,omitempty"`

	IDs          map[Provider]string   `json:"ids"`
	Checkins     map[Provider]int      `json:"checkins"`
	Users        map[Provider]int      `json:"users"`
	Likes        map[Provider]int      `json:"likes"`
	Ratings      map[Provider]float64  `json:"ratings"`
	ReviewCounts map[Provider]int      `json:"review_counts"`
	Categories   map[Provider][]string `json:"categories"`
}

func NewBusiness(lat, lon float64, name string) *Business {
	return &Business{
		Name:         name,
		Coordinates:  models.Coordinates{Lat: lat, Lon: lon},
		IDs:          make(map[Provider]string),
		Checkins:     make(map[Provider]int),
		Users:        make(map[Provider]int),
		Likes:        make(map[Provider]int),
		Ratings:      make(map[Provider]float64),
		ReviewCounts: make(map[Provider]int),
		Categories:   make(map[Provider][]string),
	}
}

// AddID records the provider's identifier. Empty ids are dropped so they can
// never be mistaken for a shared identifier.
func (b *Business) AddID(p Provider, id string) {
	if id == "" {
		return
	}
	b.IDs[p] = id
}

func (b *Business) AddCheckins(p Provider, n int) { b.Checkins[p] = n }

func (b *Business) AddUsers(p Provider, n int) { b.Users[p] = n }

func (b *Business) AddLikes(p Provider, n int) { b.Likes[p] = n }

func (b *Business) AddRating(p Provider, r float64) { b.Ratings[p] = r }

func (b *Business) AddReviewCount(p Provider, n int) { b.ReviewCounts[p] = n }

func (b *Business) AddCategories(p Provider, categories []string) {
	if len(categories) == 0 {
		return
	}
	b.Categories[p] = categories
}

// AverageRating is the mean of all provider ratings. ok is false when no
// provider rated the business.
func (b *Business) AverageRating() (avg float64, ok bool) {
	if len(b.Ratings) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range b.Ratings {
		sum += r
	}
	return sum / float64(len(b.Ratings)), true
}

// FlattenedCategories returns every category from every provider, lower-cased
// and without duplicates. Providers are visited in name order.
func (b *Business) FlattenedCategories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range slices.Sorted(maps.Keys(b.Categories)) {
		for _, c := range b.Categories[p] {
			c = strings.ToLower(c)
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func (b *Business) String() string {
	return fmt.Sprintf("<Business [name=%s, phone=%s, address=%s, city=%s, state=%s, country=%s, zip=%s, twitter=%s, website=%s, ids=%v, checkins=%v, users=%v, likes=%v, ratings=%v, review_counts=%v, coords=%v, categories=%v]>",
		b.Name, b.Phone, b.Address, b.City, b.State, b.Country, b.PostalCode, b.TwitterHandle, b.Website,
		b.IDs, b.Checkins, b.Users, b.Likes, b.Ratings, b.ReviewCounts, b.Coordinates, b.Categories)
}
