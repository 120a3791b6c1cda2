package images

import (
	"fmt"
	"image"
	"math"
	"os"

	// Registered for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Quality thresholds for training images. Tiny files are icons or
// placeholders, extreme aspect ratios are banners, and dark or flat images
// photograph nothing useful.
const (
	minFileSize    = 5000 // bytes
	minDimension   = 100  // pixels per side
	maxAspectRatio = 5.0
	minBrightness  = 30.0 // mean gray value, 0-255
	minContrast    = 20.0 // gray standard deviation
)

// ValidateImage checks a downloaded image against the quality thresholds.
// The returned error describes the first failing check.
func ValidateImage(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot stat image: %w", err)
	}
	if info.Size() < minFileSize {
		return fmt.Errorf("file too small (%d bytes)", info.Size())
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("cannot decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width < minDimension || height < minDimension {
		return fmt.Errorf("image too small (%dx%d)", width, height)
	}

	longer, shorter := float64(width), float64(height)
	if shorter > longer {
		longer, shorter = shorter, longer
	}
	if ratio := longer / shorter; ratio > maxAspectRatio {
		return fmt.Errorf("unusual aspect ratio (%.1f:1)", ratio)
	}

	brightness, contrast := grayStats(img)
	if brightness < minBrightness {
		return fmt.Errorf("image too dark (brightness %.1f)", brightness)
	}
	if contrast < minContrast {
		return fmt.Errorf("image too low contrast (%.1f)", contrast)
	}

	return nil
}

// grayStats returns the mean and standard deviation of the image's
// grayscale values on the 0-255 scale.
func grayStats(img image.Image) (mean, stddev float64) {
	bounds := img.Bounds()
	pixels := float64(bounds.Dx() * bounds.Dy())
	if pixels == 0 {
		return 0, 0
	}

	var sum, sumSquares float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// ITU-R BT.601 luma, scaled from 16-bit channels to 0-255.
			gray := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
			sum += gray
			sumSquares += gray * gray
		}
	}

	mean = sum / pixels
	variance := sumSquares/pixels - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}
