package social

import (
	"context"
	"fmt"

	"bizfinder/internal/models"
)

// Service routes engagement lookups to the client registered for a provider.
// Businesses never call it themselves; the caller passes the business in.
type Service struct {
	clients map[models.Provider]LikesClient
}

func NewService() *Service {
	return &Service{clients: make(map[models.Provider]LikesClient)}
}

// Register sets the client used for provider p.
func (s *Service) Register(p models.Provider, c LikesClient) *Service {
	s.clients[p] = c
	return s
}

// Likes returns the engagement counts provider p reports for b's website.
// A business without a website, or a provider without a client, yields
// empty Stats and no error.
func (s *Service) Likes(ctx context.Context, p models.Provider, b *models.Business) (Stats, error) {
	client, ok := s.clients[p]
	if !ok || b.Website == "" {
		return Stats{}, nil
	}
	website, err := NormalizeWebsite(b.Website)
	if err != nil {
		return Stats{}, err
	}
	stats, err := client.URLLikes(ctx, website)
	if err != nil {
		return Stats{}, fmt.Errorf("%s likes for %s: %w", p, website, err)
	}
	return stats, nil
}

// Enrich stores provider p's like count on b. Nothing is written when there
// is nothing to look up.
func (s *Service) Enrich(ctx context.Context, p models.Provider, b *models.Business) error {
	if _, ok := s.clients[p]; !ok || b.Website == "" {
		return nil
	}
	stats, err := s.Likes(ctx, p, b)
	if err != nil {
		return err
	}
	b.AddLikes(p, stats.LikeCount)
	return nil
}
