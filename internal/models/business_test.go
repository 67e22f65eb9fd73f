package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddID_IgnoresEmptyID(t *testing.T) {
	b := NewBusiness(0, 0, "x")
	b.AddID(Yelp, "")
	assert.Empty(t, b.IDs)
}

func TestAverageRating(t *testing.T) {
	b := NewBusiness(0, 0, "x")
	_, ok := b.AverageRating()
	assert.False(t, ok)

	b.AddRating(Yelp, 4)
	b.AddRating(GooglePlaces, 3)
	avg, ok := b.AverageRating()
	assert.True(t, ok)
	assert.InDelta(t, 3.5, avg, 1e-9)
}

func TestFlattenedCategories(t *testing.T) {
	b := NewBusiness(0, 0, "x")
	b.AddCategories(Yelp, []string{"Pizza", "Italian"})
	b.AddCategories(Foursquare, []string{"pizza place", "PIZZA"})
	b.AddCategories(GooglePlaces, nil)

	assert.Equal(t, []string{"pizza place", "pizza", "italian"}, b.FlattenedCategories())
}

func TestString(t *testing.T) {
	b := NewBusiness(1, 2, "Joe's Pizza")
	b.AddID(Yelp, "joes")
	assert.Contains(t, b.String(), "name=Joe's Pizza")
	assert.Contains(t, b.String(), "ids=map[yelp:joes]")
}
