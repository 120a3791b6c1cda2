package images_test

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DawsonJay/jam-hot-project/internal/fetch"
	"github.com/DawsonJay/jam-hot-project/internal/images"
	"github.com/DawsonJay/jam-hot-project/internal/logger"
	"github.com/DawsonJay/jam-hot-project/internal/retry"
)

const googleListingHTML = `<html><body>
<a href="/imgres?imgurl=https%3A%2F%2Ffarm.example.com%2Fstrawberry1.jpg&amp;imgrefurl=https%3A%2F%2Ffarm.example.com">one</a>
<a href="/imgres?imgurl=https%3A%2F%2Ffarm.example.com%2Fstrawberry2.png&amp;h=600">two</a>
<a href="/imgres?imgurl=data%3Aimage%2Fpng%3Bbase64%2CAAAA">inline</a>
<a href="/imgres?imgurl=https%3A%2F%2Ffarm.example.com%2Fstrawberry1.jpg">duplicate</a>
<img src="https://encrypted-tbn0.gstatic.com/images?q=tbn:thumb1">
<script>var x = "https://encrypted-tbn0.gstatic.com/images?q=tbn:thumb2";</script>
</body></html>`

func TestGoogleImagesAssetURLs(t *testing.T) {
	t.Parallel()

	g := images.NewGoogleImages()
	urls := g.AssetURLs(googleListingHTML, 10)

	// Full-size URLs first, the data: URI skipped, duplicates collapsed,
	// then gstatic thumbnails as filler.
	assert.Equal(t, []string{
		"https://farm.example.com/strawberry1.jpg",
		"https://farm.example.com/strawberry2.png",
		"https://encrypted-tbn0.gstatic.com/images?q=tbn:thumb1",
		"https://encrypted-tbn0.gstatic.com/images?q=tbn:thumb2",
	}, urls)
}

func TestGoogleImagesAssetURLsLimit(t *testing.T) {
	t.Parallel()

	g := images.NewGoogleImages()
	urls := g.AssetURLs(googleListingHTML, 1)
	assert.Equal(t, []string{"https://farm.example.com/strawberry1.jpg"}, urls)
}

func TestGoogleImagesSearchURL(t *testing.T) {
	t.Parallel()

	g := images.NewGoogleImages()
	assert.Equal(t,
		"https://www.google.com/search?q=strawberry+fruit+close+up+fresh&tbm=isch&hl=en",
		g.SearchURL("strawberry fruit close up fresh"))
}

func TestGoogleImagesSearchTerms(t *testing.T) {
	t.Parallel()

	terms := images.NewGoogleImages().SearchTerms("raspberry")
	require.Len(t, terms, 5)
	for _, term := range terms {
		assert.Contains(t, term, "raspberry")
	}
}

// writeTestPNG writes a width x height image whose pixel gray values come
// from pixelValue, with enough noise to defeat PNG compression.
func writeTestPNG(t *testing.T, path string, width, height int, pixelValue func(x, y int) uint8) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: pixelValue(x, y)})
		}
	}

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
}

func TestValidateImageAccepts(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	path := filepath.Join(t.TempDir(), "good.png")
	writeTestPNG(t, path, 300, 300, func(int, int) uint8 {
		return uint8(60 + rng.Intn(160))
	})

	require.NoError(t, images.ValidateImage(path))
}

func TestValidateImageRejectsSmallFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tiny.png")
	require.NoError(t, os.WriteFile(path, []byte("not much"), 0o644))

	err := images.ValidateImage(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestValidateImageRejectsSmallDimensions(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(2))
	path := filepath.Join(t.TempDir(), "thumb.png")
	// Large enough on disk thanks to noise, but under 100px tall.
	writeTestPNG(t, path, 400, 50, func(int, int) uint8 {
		return uint8(rng.Intn(256))
	})

	err := images.ValidateImage(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestValidateImageRejectsBannerAspect(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	path := filepath.Join(t.TempDir(), "banner.png")
	writeTestPNG(t, path, 900, 120, func(int, int) uint8 {
		return uint8(rng.Intn(256))
	})

	err := images.ValidateImage(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aspect ratio")
}

func TestValidateImageRejectsDark(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(4))
	path := filepath.Join(t.TempDir(), "dark.png")
	writeTestPNG(t, path, 300, 300, func(int, int) uint8 {
		return uint8(rng.Intn(20))
	})

	err := images.ValidateImage(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too dark")
}

func TestValidateImageRejectsLowContrast(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(5))
	path := filepath.Join(t.TempDir(), "flat.png")
	// Bright but nearly uniform: std dev well under 20.
	writeTestPNG(t, path, 300, 300, func(int, int) uint8 {
		return uint8(150 + rng.Intn(10))
	})

	err := images.ValidateImage(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contrast")
}

// resolveFetcher counts fetches and returns one asset URL per page.
type resolveFetcher struct {
	calls atomic.Int32
	fail  func(url string) bool
}

func (f *resolveFetcher) Fetch(_ context.Context, req fetch.Request) (string, error) {
	f.calls.Add(1)
	if f.fail != nil && f.fail(req.URL) {
		return "", fmt.Errorf("blocked: %s", req.URL)
	}
	return req.URL, nil
}

// echoExtractor turns the fetched page (the URL itself here) into one
// asset URL.
type echoExtractor struct{}

func (echoExtractor) AssetURLs(pageHTML string, limit int) []string {
	if limit < 1 {
		return nil
	}
	return []string{pageHTML + "/asset.jpg"}
}

func fastPolicy() retry.Policy {
	return retry.Policy{Attempts: 1, InitialDelay: time.Millisecond}
}

func TestResolveStopsAtTarget(t *testing.T) {
	t.Parallel()

	var candidates []string
	for i := range 20 {
		candidates = append(candidates, fmt.Sprintf("page-%d", i))
	}

	fetcher := &resolveFetcher{}
	r := images.NewResolver(fetcher, echoExtractor{}, 3, 5, fastPolicy(), logger.NewNoOp())

	resolved := r.Resolve(context.Background(), candidates, 10)

	assert.Len(t, resolved, 10)
	// Early termination: nowhere near all 20 candidates get fetched. The
	// in-flight worker margin allows a few beyond the target.
	assert.LessOrEqual(t, fetcher.calls.Load(), int32(14))
}

// fetchFunc adapts a function to the PageFetcher interface.
type fetchFunc func(context.Context, fetch.Request) (string, error)

func (f fetchFunc) Fetch(ctx context.Context, req fetch.Request) (string, error) {
	return f(ctx, req)
}

func TestResolveOverlapsPageFetches(t *testing.T) {
	t.Parallel()

	const workers = 3

	// Every fetch blocks until all workers have a page load in flight at
	// once. A pool that serializes its fetches never reaches the barrier
	// and times out with a peak of one.
	var inFlight, peak atomic.Int32
	release := make(chan struct{})
	var once sync.Once

	fetcher := fetchFunc(func(_ context.Context, req fetch.Request) (string, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)

		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		if n == workers {
			once.Do(func() { close(release) })
		}

		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		return req.URL, nil
	})

	candidates := []string{"page-0", "page-1", "page-2", "page-3", "page-4", "page-5"}
	r := images.NewResolver(fetcher, echoExtractor{}, workers, 5, fastPolicy(), logger.NewNoOp())

	resolved := r.Resolve(context.Background(), candidates, len(candidates))

	assert.Len(t, resolved, len(candidates))
	assert.Equal(t, int32(workers), peak.Load())
}

func TestResolveSkipsFailedPages(t *testing.T) {
	t.Parallel()

	candidates := []string{"page-0", "page-1", "page-2", "page-3"}
	fetcher := &resolveFetcher{fail: func(url string) bool { return url == "page-1" }}
	r := images.NewResolver(fetcher, echoExtractor{}, 2, 5, fastPolicy(), logger.NewNoOp())

	resolved := r.Resolve(context.Background(), candidates, 10)
	assert.Len(t, resolved, 3)
}

func TestResolveEmptyInputs(t *testing.T) {
	t.Parallel()

	r := images.NewResolver(&resolveFetcher{}, echoExtractor{}, 3, 5, fastPolicy(), logger.NewNoOp())
	assert.Nil(t, r.Resolve(context.Background(), nil, 10))
	assert.Nil(t, r.Resolve(context.Background(), []string{"page"}, 0))
}

func TestDownloaderSavesImages(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	d := images.NewDownloader(5*time.Second, "jam-hot-test")
	path := filepath.Join(t.TempDir(), "nested", "img.jpg")

	size, err := d.Download(context.Background(), srv.URL, path)
	require.NoError(t, err)
	assert.Equal(t, int64(len("jpeg-bytes")), size)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestDownloaderRejectsNonImages(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not an image</html>"))
	}))
	defer srv.Close()

	d := images.NewDownloader(5*time.Second, "jam-hot-test")
	path := filepath.Join(t.TempDir(), "img.jpg")

	_, err := d.Download(context.Background(), srv.URL, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an image")
	assert.NoFileExists(t, path)
}

func TestDownloaderRejectsErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d := images.NewDownloader(5*time.Second, "jam-hot-test")
	_, err := d.Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "img.jpg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
