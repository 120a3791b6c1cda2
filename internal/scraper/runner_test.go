package scraper_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DawsonJay/jam-hot-project/internal/adapters"
	"github.com/DawsonJay/jam-hot-project/internal/domain"
	"github.com/DawsonJay/jam-hot-project/internal/fetch"
	"github.com/DawsonJay/jam-hot-project/internal/logger"
	"github.com/DawsonJay/jam-hot-project/internal/retry"
	"github.com/DawsonJay/jam-hot-project/internal/scraper"
	"github.com/DawsonJay/jam-hot-project/internal/validator"
)

// fakeFetcher serves canned markup keyed by URL.
type fakeFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, req fetch.Request) (string, error) {
	f.calls = append(f.calls, req.URL)
	if err, ok := f.errs[req.URL]; ok {
		return "", err
	}
	page, ok := f.pages[req.URL]
	if !ok {
		return "", fmt.Errorf("no fixture for %s", req.URL)
	}
	return page, nil
}

// fakeStore records persistence calls in memory.
type fakeStore struct {
	recipes   []*domain.Recipe
	relations []domain.FruitRelation
	existing  map[string]int64
	insertErr error
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{existing: make(map[string]int64)}
}

func (s *fakeStore) InsertIfAbsent(_ context.Context, rec *domain.Recipe) (int64, bool, error) {
	if s.insertErr != nil {
		return 0, false, s.insertErr
	}
	if id, ok := s.existing[rec.SourceURL]; ok {
		return id, false, nil
	}
	s.nextID++
	s.existing[rec.SourceURL] = s.nextID
	s.recipes = append(s.recipes, rec)
	return s.nextID, true, nil
}

func (s *fakeStore) FruitIDByIdentifier(_ context.Context, identifier string) (int64, error) {
	return int64(len(identifier)), nil
}

func (s *fakeStore) UpsertFruitRelation(_ context.Context, rel domain.FruitRelation) error {
	s.relations = append(s.relations, rel)
	return nil
}

// stubAdapter is a minimal site adapter for exercising the runner.
type stubAdapter struct {
	name  string
	links []string
}

func (a *stubAdapter) Name() string                 { return a.name }
func (a *stubAdapter) FetchMode() domain.FetchMode  { return domain.FetchModeLightweight }
func (a *stubAdapter) SearchURL(query string) string {
	return "https://test.example.com/search?q=" + query
}

func (a *stubAdapter) RecipeLinks(string) ([]string, error) {
	return a.links, nil
}

func (a *stubAdapter) ExtractRecipe(detailHTML, sourceURL string) (*domain.Recipe, error) {
	rec := &domain.Recipe{
		Title:       detailHTML,
		Description: "homemade jam",
		Ingredients: domain.IngredientList{
			{Item: "2 lbs strawberries", Name: "strawberries"},
			{Item: "4 cups sugar", Name: "sugar"},
		},
		Rating:      4.5,
		ReviewCount: 10,
		Source:      a.name,
		SourceURL:   sourceURL,
		ScrapedAt:   time.Now().UTC(),
	}
	if !validator.IsJamRecipe(rec) {
		return nil, fmt.Errorf("recipe %q: %w", rec.Title, validator.ErrNotTargetContent)
	}
	return rec, nil
}

func (a *stubAdapter) ExtractFruits(domain.IngredientList) []string {
	return []string{"strawberry", "lemon"}
}

func testPolicy() retry.Policy {
	return retry.Policy{Attempts: 2, InitialDelay: time.Millisecond}
}

func newTestRunner(fetcher scraper.Fetcher, store scraper.RecipeStore) *scraper.Runner {
	return scraper.NewRunner(fetcher, store, testPolicy(), 10, logger.NewNoOp())
}

func TestRunPersistsValidatedRecipes(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{
		name:  "TestSite",
		links: []string{"https://test.example.com/r/1", "https://test.example.com/r/2"},
	}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://test.example.com/search?q=strawberry jam": "<html>listing</html>",
		"https://test.example.com/r/1":                     "Strawberry Jam One",
		"https://test.example.com/r/2":                     "Strawberry Jam Two",
	}}
	store := newFakeStore()

	report, err := newTestRunner(fetcher, store).Run(context.Background(), adapter, "strawberry")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Found)
	assert.Equal(t, 2, report.Fetched)
	assert.Equal(t, 2, report.Validated)
	assert.Equal(t, 2, report.Inserted)
	assert.Zero(t, report.Rejected)
	assert.Zero(t, report.Failed)
	require.Len(t, store.recipes, 2)
	assert.Equal(t, "Strawberry Jam One", store.recipes[0].Title)
}

func TestRunTagsFruitRelations(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{name: "TestSite", links: []string{"https://test.example.com/r/1"}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://test.example.com/search?q=strawberry jam": "<html></html>",
		"https://test.example.com/r/1":                     "Strawberry Jam",
	}}
	store := newFakeStore()

	_, err := newTestRunner(fetcher, store).Run(context.Background(), adapter, "strawberry")
	require.NoError(t, err)

	// Strawberry is in the title so it is primary; lemon is a supporting
	// fruit and stays secondary.
	require.Len(t, store.relations, 2)
	byPrimary := map[bool]int{}
	for _, rel := range store.relations {
		byPrimary[rel.IsPrimary]++
		assert.Equal(t, int64(1), rel.RecipeID)
	}
	assert.Equal(t, 1, byPrimary[true])
	assert.Equal(t, 1, byPrimary[false])
}

func TestRunSkipsDuplicates(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{name: "TestSite", links: []string{"https://test.example.com/r/1"}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://test.example.com/search?q=strawberry jam": "<html></html>",
		"https://test.example.com/r/1":                     "Strawberry Jam",
	}}
	store := newFakeStore()
	store.existing["https://test.example.com/r/1"] = 7

	report, err := newTestRunner(fetcher, store).Run(context.Background(), adapter, "strawberry")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Validated)
	assert.Equal(t, 1, report.Duplicates)
	assert.Zero(t, report.Inserted)
	assert.Empty(t, store.relations)
}

func TestRunCountsRejectedRecipes(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{name: "TestSite", links: []string{"https://test.example.com/r/cake"}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://test.example.com/search?q=strawberry jam": "<html></html>",
		// The stub adapter extracts the page body as the title, so this
		// fails the non-jam keyword rule.
		"https://test.example.com/r/cake": "Strawberry Jam Cake",
	}}
	store := newFakeStore()

	report, err := newTestRunner(fetcher, store).Run(context.Background(), adapter, "strawberry")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Rejected)
	assert.Zero(t, report.Validated)
	assert.Empty(t, store.recipes)
}

func TestRunCountsDetailFailures(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{
		name:  "TestSite",
		links: []string{"https://test.example.com/r/1", "https://test.example.com/r/down"},
	}
	fetcher := &fakeFetcher{
		pages: map[string]string{
			"https://test.example.com/search?q=strawberry jam": "<html></html>",
			"https://test.example.com/r/1":                     "Strawberry Jam",
		},
		errs: map[string]error{
			"https://test.example.com/r/down": errors.New("connection refused"),
		},
	}
	store := newFakeStore()

	report, err := newTestRunner(fetcher, store).Run(context.Background(), adapter, "strawberry")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Inserted)
}

func TestRunListingFailureAbortsSource(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{name: "TestSite", links: []string{"https://test.example.com/r/1"}}
	fetcher := &fakeFetcher{
		errs: map[string]error{
			"https://test.example.com/search?q=strawberry jam": errors.New("503"),
		},
	}

	_, err := newTestRunner(fetcher, newFakeStore()).Run(context.Background(), adapter, "strawberry")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search results")
}

func TestRunRetriesDetailFetches(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{name: "TestSite", links: []string{"https://test.example.com/r/down"}}
	fetcher := &fakeFetcher{
		pages: map[string]string{
			"https://test.example.com/search?q=strawberry jam": "<html></html>",
		},
		errs: map[string]error{
			"https://test.example.com/r/down": errors.New("reset"),
		},
	}

	report, err := newTestRunner(fetcher, newFakeStore()).Run(context.Background(), adapter, "strawberry")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)

	// One listing fetch plus two attempts at the failing detail page.
	assert.Len(t, fetcher.calls, 3)
}

func TestRunCapsCandidateLinks(t *testing.T) {
	t.Parallel()

	var links []string
	pages := map[string]string{
		"https://test.example.com/search?q=strawberry jam": "<html></html>",
	}
	for i := range 20 {
		url := fmt.Sprintf("https://test.example.com/r/%d", i)
		links = append(links, url)
		pages[url] = fmt.Sprintf("Strawberry Jam %d", i)
	}

	adapter := &stubAdapter{name: "TestSite", links: links}
	fetcher := &fakeFetcher{pages: pages}
	store := newFakeStore()

	report, err := scraper.NewRunner(fetcher, store, testPolicy(), 5, logger.NewNoOp()).
		Run(context.Background(), adapter, "strawberry")
	require.NoError(t, err)

	assert.Equal(t, 5, report.Found)
	assert.Len(t, store.recipes, 5)
}

func TestRunAllAggregatesAcrossSources(t *testing.T) {
	t.Parallel()

	reg := adapters.NewRegistry()
	require.NoError(t, reg.Register(&stubAdapter{
		name:  "SiteA",
		links: []string{"https://test.example.com/r/1"},
	}))

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://test.example.com/search?q=strawberry jam": "<html></html>",
		"https://test.example.com/search?q=raspberry jam":  "<html></html>",
		"https://test.example.com/r/1":                     "Strawberry Jam",
	}}
	store := newFakeStore()

	reports, err := newTestRunner(fetcher, store).
		RunAll(context.Background(), reg, []string{"strawberry", "raspberry"})
	require.NoError(t, err)
	require.Len(t, reports, 2)

	var total scraper.RunReport
	for _, r := range reports {
		total.Add(r)
	}
	assert.Equal(t, 2, total.Found)
	// The second run hits the same detail URL, which is now a duplicate.
	assert.Equal(t, 1, total.Inserted)
	assert.Equal(t, 1, total.Duplicates)
}
