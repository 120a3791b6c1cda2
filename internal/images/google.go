package images

import (
	"net/url"
	"regexp"
	"strings"
)

const googleImagesSource = "Google Images"

// Search page anchors link to /imgres with the full-size image URL in the
// imgurl query parameter.
var imgresPattern = regexp.MustCompile(`href="(/imgres\?[^"]+)"`)

// Encrypted thumbnail URLs are the fallback when too few full-size URLs
// are present.
var gstaticThumbPattern = regexp.MustCompile(`"(https://encrypted-tbn\d\.gstatic\.com/images[^"]+)"`)

// GoogleImages extracts image URLs from Google Images search result markup.
type GoogleImages struct{}

func NewGoogleImages() *GoogleImages { return &GoogleImages{} }

func (g *GoogleImages) Name() string { return googleImagesSource }

// SearchURL builds an image-tab search URL for the term.
func (g *GoogleImages) SearchURL(term string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(term) + "&tbm=isch&hl=en"
}

// SearchTerms returns the query variations used per fruit. The first term
// yields clean reference photos; the rest target amateur real-world shots,
// which make better training data.
func (g *GoogleImages) SearchTerms(fruit string) []string {
	fruit = strings.ReplaceAll(fruit, "_", " ")
	return []string{
		fruit + " fruit close up fresh",
		fruit + " picking hands harvest",
		fruit + " market fresh produce",
		fruit + " tree branch ripe",
		fruit + " bowl kitchen fresh",
	}
}

// AssetURLs extracts up to limit full-size image URLs from a search results
// page. Full-size URLs from /imgres links come first; gstatic thumbnails
// fill any remainder.
func (g *GoogleImages) AssetURLs(pageHTML string, limit int) []string {
	var urls []string
	seen := make(map[string]struct{})

	appendURL := func(u string) bool {
		if _, dup := seen[u]; dup {
			return len(urls) < limit
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
		return len(urls) < limit
	}

	for _, m := range imgresPattern.FindAllStringSubmatch(pageHTML, -1) {
		full := imgurlParam(m[1])
		if full == "" || strings.HasPrefix(full, "data:") {
			continue
		}
		if !appendURL(full) {
			return urls
		}
	}

	for _, m := range gstaticThumbPattern.FindAllStringSubmatch(pageHTML, -1) {
		if !appendURL(m[1]) {
			return urls
		}
	}

	return urls
}

// imgurlParam decodes an /imgres href and returns its imgurl parameter.
func imgurlParam(imgresHref string) string {
	// hrefs in raw markup carry entity-escaped ampersands.
	imgresHref = strings.ReplaceAll(imgresHref, "&amp;", "&")

	parsed, err := url.Parse(imgresHref)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("imgurl")
}
