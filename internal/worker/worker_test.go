package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bizfinder/internal/enrich"
	"bizfinder/internal/models"
	"bizfinder/internal/service"
	bizmodels "bizfinder/models"
	"bizfinder/pkg/social"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSearcher struct {
	results []*models.Business
	err     error
	gotLoc  bizmodels.Location
}

func (s *fakeSearcher) SearchLocation(_ context.Context, loc bizmodels.Location, _ string) ([]*models.Business, error) {
	s.gotLoc = loc
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *fakeSearcher) SearchLocationStrictly(ctx context.Context, loc bizmodels.Location, query string) (*models.Business, error) {
	results, err := s.SearchLocation(ctx, loc, query)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return results[len(results)-1], nil
}

type fakeLikes map[string]int

func (f fakeLikes) URLLikes(_ context.Context, website string) (social.Stats, error) {
	n, ok := f[website]
	if !ok {
		return social.Stats{}, errors.New("unknown url")
	}
	return social.Stats{LikeCount: n}, nil
}

type recorder struct {
	mu        sync.Mutex
	stored    []string
	upserted  []string
	published []string
	failStore bool
}

func (r *recorder) StoreResult(_ context.Context, bucket string, result *models.SearchResult) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failStore {
		return "", errors.New("bucket gone")
	}
	r.stored = append(r.stored, bucket+"/"+result.SearchID)
	return result.SearchID, nil
}

func (r *recorder) UpsertResult(_ context.Context, result *models.SearchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserted = append(r.upserted, result.SearchID)
	return nil
}

func (r *recorder) PublishJSON(_ context.Context, key string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, key)
	return nil
}

func business(name, website string) *models.Business {
	b := models.NewBusiness(40.7, -74, name)
	b.Website = website
	return b
}

func TestSearch(t *testing.T) {
	s := &fakeSearcher{results: []*models.Business{business("a", ""), business("b", "")}}

	job := Search(context.Background(), s, &models.SearchRequest{ID: "s1", Location: "40.7,-74", Query: "pizza"})
	assert.False(t, job.Failed)
	assert.Len(t, job.Result.Businesses, 2)
	require.True(t, s.gotLoc.Resolved())
	assert.Equal(t, 40.7, s.gotLoc.Coordinates.Lat)

	job = Search(context.Background(), s, &models.SearchRequest{ID: "s2", Location: "Carmine St", Query: "pizza", Strict: true})
	require.Len(t, job.Result.Businesses, 1)
	assert.Equal(t, "b", job.Result.Businesses[0].Name)
	assert.Equal(t, "Carmine St", s.gotLoc.Address)
}

func TestSearch_Failure(t *testing.T) {
	s := &fakeSearcher{err: errors.New("all providers failed")}

	job := Search(context.Background(), s, &models.SearchRequest{ID: "s1", Location: "1,1", Query: "pizza"})
	assert.True(t, job.Failed)
	assert.Equal(t, "all providers failed", job.Result.Error)
	assert.NotNil(t, job.Result.Businesses)
	assert.Empty(t, job.Result.Businesses)
}

func TestLikesStep(t *testing.T) {
	svc := social.NewService().Register(models.Facebook, fakeLikes{"https://www.joes.example": 42})
	job := &Job{Result: &models.SearchResult{Businesses: []*models.Business{
		business("Joe's", "https://www.Joes.example/menu"),
		business("Broken", "http://nowhere.example"),
		business("Offline", ""),
	}}}

	err := LikesStep(svc, models.Facebook)(context.Background(), job)
	require.Error(t, err, "one lookup failed")
	assert.Equal(t, 42, job.Result.Businesses[0].Likes[models.Facebook])
	assert.NotContains(t, job.Result.Businesses[1].Likes, models.Facebook)
	assert.NotContains(t, job.Result.Businesses[2].Likes, models.Facebook)
}

func TestWorker_Run(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rec := &recorder{}
	pipeline := enrich.NewPipeline(zaptest.NewLogger(t),
		enrich.NewStage("social", LikesStep(social.NewService(), models.Facebook)),
		enrich.NewStage("sink", StoreStep(rec, "results"), UpsertStep(rec), PublishStep(rec)),
	)

	ok := &fakeSearcher{results: []*models.Business{business("a", "")}}
	w := New(ok, pipeline, zaptest.NewLogger(t))

	requests := make(chan *service.Fetched[*models.SearchRequest], 2)
	requests <- &service.Fetched[*models.SearchRequest]{Data: &models.SearchRequest{ID: "s1", Location: "1,1", Query: "a"}}
	requests <- &service.Fetched[*models.SearchRequest]{Data: &models.SearchRequest{ID: "s2", Location: "1,1", Query: "a"}}
	close(requests)

	w.Run(ctx, requests, nil)

	assert.Equal(t, []string{"results/s1", "results/s2"}, rec.stored)
	assert.Equal(t, []string{"s1", "s2"}, rec.upserted)
	assert.Equal(t, []string{"s1", "s2"}, rec.published)
}

func TestWorker_FailedSearchIsPublishedNotUpserted(t *testing.T) {
	rec := &recorder{failStore: true}
	pipeline := enrich.NewPipeline(zaptest.NewLogger(t),
		enrich.NewStage("sink", StoreStep(rec, "results"), UpsertStep(rec), PublishStep(rec)),
	)
	w := New(&fakeSearcher{err: errors.New("boom")}, pipeline, nil)

	requests := make(chan *service.Fetched[*models.SearchRequest], 1)
	requests <- &service.Fetched[*models.SearchRequest]{Data: &models.SearchRequest{ID: "s1", Location: "1,1", Query: "a"}}
	close(requests)

	w.Run(context.Background(), requests, nil)

	assert.Empty(t, rec.stored)
	assert.Empty(t, rec.upserted)
	assert.Equal(t, []string{"s1"}, rec.published)
}

func TestWorker_CommitsAfterSinks(t *testing.T) {
	rec := &recorder{}
	var order []string
	var mu sync.Mutex
	pipeline := enrich.NewPipeline(zaptest.NewLogger(t),
		enrich.NewStage("sink", func(ctx context.Context, job *Job) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, "publish "+job.Result.SearchID)
			return rec.PublishJSON(ctx, job.Result.SearchID, job.Result)
		}),
	)
	w := New(&fakeSearcher{}, pipeline, zaptest.NewLogger(t))

	requests := make(chan *service.Fetched[*models.SearchRequest], 2)
	requests <- &service.Fetched[*models.SearchRequest]{Data: &models.SearchRequest{ID: "s1", Location: "1,1", Query: "a"}}
	requests <- &service.Fetched[*models.SearchRequest]{Data: &models.SearchRequest{ID: "s2", Location: "1,1", Query: "a"}}
	close(requests)

	w.Run(context.Background(), requests, func(_ context.Context, f *service.Fetched[*models.SearchRequest]) error {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "commit "+f.Data.ID)
		return nil
	})

	assert.Equal(t, []string{"publish s1", "commit s1", "publish s2", "commit s2"}, order)
}

func TestWorker_CommitsFailedJobs(t *testing.T) {
	pipeline := enrich.NewPipeline[Job](nil)
	w := New(&fakeSearcher{err: errors.New("boom")}, pipeline, nil)

	requests := make(chan *service.Fetched[*models.SearchRequest], 1)
	requests <- &service.Fetched[*models.SearchRequest]{Data: &models.SearchRequest{ID: "s1", Location: "1,1", Query: "a"}}
	close(requests)

	var committed []string
	w.Run(context.Background(), requests, func(_ context.Context, f *service.Fetched[*models.SearchRequest]) error {
		committed = append(committed, f.Data.ID)
		return nil
	})
	assert.Equal(t, []string{"s1"}, committed)
}
