package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DawsonJay/jam-hot-project/internal/logger"
)

// unknownClass is the directory for exotic fruits the classifier should
// learn to reject rather than name.
const unknownClass = "unknown"

// Report summarizes one fruit's image collection run.
type Report struct {
	Fruit      string
	Source     string
	Requested  int
	Found      int // resolved full-size URLs
	Downloaded int
	Validated  int
	Rejected   int // downloaded but failed quality validation
	Failed     int // download errors
}

// Pipeline collects validated training images for fruits: resolve candidate
// URLs from search pages, download each, validate, and keep survivors until
// the per-fruit target is met.
type Pipeline struct {
	resolver   *Resolver
	source     *GoogleImages
	downloader *Downloader
	outputDir  string
	log        logger.Interface
}

// NewPipeline creates a pipeline writing images under outputDir, one
// subdirectory per fruit.
func NewPipeline(resolver *Resolver, source *GoogleImages, downloader *Downloader, outputDir string, log logger.Interface) *Pipeline {
	return &Pipeline{
		resolver:   resolver,
		source:     source,
		downloader: downloader,
		outputDir:  outputDir,
		log:        log.WithComponent("images"),
	}
}

// CollectFruit gathers up to target validated images for one fruit. Exotic
// fruits land in the shared unknown class directory. URL resolution over-
// collects because downloads fail and validation rejects; the loop stops as
// soon as target images survive.
func (p *Pipeline) CollectFruit(ctx context.Context, fruit string, target int, exotic bool) (Report, error) {
	report := Report{Fruit: fruit, Source: p.source.Name(), Requested: target}
	log := p.log.WithFruit(fruit)

	class := fruit
	if exotic {
		class = unknownClass
	}
	fruitDir := filepath.Join(p.outputDir, class)
	if err := os.MkdirAll(fruitDir, 0o755); err != nil {
		return report, fmt.Errorf("failed to create image directory %s: %w", fruitDir, err)
	}

	var searchURLs []string
	for _, term := range p.source.SearchTerms(fruit) {
		searchURLs = append(searchURLs, p.source.SearchURL(term))
	}

	// Resolve twice the target so rejected downloads have replacements.
	imageURLs := p.resolver.Resolve(ctx, searchURLs, target*2)
	report.Found = len(imageURLs)
	log.Info("resolved image URLs", "count", len(imageURLs), "target", target)

	for _, imageURL := range imageURLs {
		if report.Validated >= target {
			break
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		savePath := filepath.Join(fruitDir, p.fileName(fruit))

		if _, err := p.downloader.Download(ctx, imageURL, savePath); err != nil {
			report.Failed++
			log.Debug("download failed", "url", imageURL, "error", err)
			continue
		}
		report.Downloaded++

		if err := ValidateImage(savePath); err != nil {
			report.Rejected++
			os.Remove(savePath)
			log.Debug("image rejected", "path", savePath, "error", err)
			continue
		}
		report.Validated++
	}

	if report.Validated < target {
		log.Warn("collected fewer images than requested",
			"validated", report.Validated,
			"target", target,
		)
	}

	return report, nil
}

// CollectAll runs CollectFruit for every fruit and returns the reports.
// Per-fruit failures are logged and the batch continues.
func (p *Pipeline) CollectAll(ctx context.Context, fruits []string, target int, exotic bool) ([]Report, error) {
	var reports []Report

	for _, fruit := range fruits {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		report, err := p.CollectFruit(ctx, fruit, target, exotic)
		if err != nil {
			p.log.Error("fruit collection failed", "fruit", fruit, "error", err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// fileName builds a unique image file name like
// google_images_strawberry_1735820000_1a2b3c4d.jpg.
func (p *Pipeline) fileName(fruit string) string {
	source := strings.ReplaceAll(strings.ToLower(p.source.Name()), " ", "_")
	return fmt.Sprintf("%s_%s_%d_%s.jpg",
		source, fruit, time.Now().Unix(), uuid.NewString()[:8])
}
