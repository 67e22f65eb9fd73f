package models

import "bizfinder/pkg/distance"

const (
	// MaxMatchDistanceMiles is the exclusive upper bound on how far apart two
	// listings may be for the location and name clause to match.
	MaxMatchDistanceMiles = 0.3
	// MaxMatchNameDistance is the exclusive upper bound on the normalized
	// name distance for the location and name clause to match.
	MaxMatchNameDistance = 0.4
)

// SameBusiness decides whether a and b describe the same business. Clauses
// are checked strongest evidence first and the first one that holds wins:
// a shared provider id, a shared phone number, then proximity plus a similar
// name.
func SameBusiness(a, b *Business) bool {
	if a == nil || b == nil {
		return false
	}
	if a.sharesID(b) {
		return true
	}
	if a.Phone != "" && a.Phone == b.Phone {
		return true
	}
	return distance.Geo(a.Coordinates, b.Coordinates) < MaxMatchDistanceMiles &&
		distance.Name(a.Name, b.Name) < MaxMatchNameDistance
}

// SameAs is SameBusiness with b as the receiver.
func (b *Business) SameAs(other *Business) bool {
	return SameBusiness(b, other)
}

func (b *Business) sharesID(other *Business) bool {
	for p, id := range b.IDs {
		if otherID, ok := other.IDs[p]; ok && otherID == id {
			return true
		}
	}
	return false
}

// Merge folds other into b and returns b.
//
// Scalars keep b's value and only take other's when b has none. Per-source
// maps take other's value on key conflicts. Coordinates become the mean of
// the two current points, not a running mean over every merged listing.
func (b *Business) Merge(other *Business) *Business {
	if other == nil {
		return b
	}

	fill(&b.Phone, other.Phone)
	fill(&b.Address, other.Address)
	fill(&b.State, other.State)
	fill(&b.Country, other.Country)
	fill(&b.PostalCode, other.PostalCode)
	fill(&b.TwitterHandle, other.TwitterHandle)
	fill(&b.City, other.City)
	fill(&b.Website, other.Website)

	b.IDs = overlay(b.IDs, other.IDs)
	b.Checkins = overlay(b.Checkins, other.Checkins)
	b.Users = overlay(b.Users, other.Users)
	b.Likes = overlay(b.Likes, other.Likes)
	b.Ratings = overlay(b.Ratings, other.Ratings)
	b.ReviewCounts = overlay(b.ReviewCounts, other.ReviewCounts)
	b.Categories = overlay(b.Categories, other.Categories)

	b.Coordinates.Lat = (b.Coordinates.Lat + other.Coordinates.Lat) / 2
	b.Coordinates.Lon = (b.Coordinates.Lon + other.Coordinates.Lon) / 2
	return b
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func overlay[V any](dst, src map[Provider]V) map[Provider]V {
	if dst == nil {
		dst = make(map[Provider]V, len(src))
	}
	for p, v := range src {
		dst[p] = v
	}
	return dst
}
