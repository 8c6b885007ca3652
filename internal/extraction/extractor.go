package extraction

import (
	"regexp"
	"time"

	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
)

// Labels as rendered on Soomgo profile pages.
const (
	LabelHirings = "고용"
	LabelReviews = "리뷰"
	LabelRating  = "평점"
)

var (
	hiringPatterns = []*regexp.Regexp{
		regexp.MustCompile(`고용[:\s]*(\d[\d,]*)`),
		regexp.MustCompile(`(\d[\d,]*)\s*회`),
	}
	reviewPatterns = []*regexp.Regexp{
		regexp.MustCompile(`리뷰[:\s]*(\d[\d,]*)`),
		regexp.MustCompile(`(\d[\d,]*)\s*개의\s*리뷰`),
		regexp.MustCompile(`\d\.\d+\s*\(\s*(\d[\d,]*)\s*\)`),
	}
	ratingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d\.\d+)\s*\(\s*\d`),
		regexp.MustCompile(`(?:평점|별점)[:\s]*(\d\.\d+)`),
		regexp.MustCompile(`★\s*(\d\.\d+)`),
		regexp.MustCompile(`(\d\.\d+)\s*(?:점|/\s*5)`),
	}
)

// Extractor holds one strategy chain per metric.
type Extractor struct {
	Hirings Chain[int]
	Reviews Chain[int]
	Rating  Chain[float64]
}

// NewExtractor returns the chains for Soomgo profile pages.
func NewExtractor() *Extractor {
	return &Extractor{
		Hirings: Chain[int]{
			Selector(KindStructured, NormalizeInt, `div.statistics-info > div:first-child div.statistics-info-item-contents`),
			Selector(KindRelaxed, NormalizeInt, `div.statistics-info-item-contents`, `.statistics-info-item`),
			Anchor(KindAnchor, NormalizeInt, LabelHirings),
			Pattern(KindPattern, NormalizeInt, hiringPatterns...),
		},
		Reviews: Chain[int]{
			Selector(KindStructured, NormalizeInt, `div.review-info span.count`),
			Selector(KindRelaxed, NormalizeInt, `span.count`, `.review-info .count`),
			Anchor(KindAnchor, NormalizeInt, LabelReviews),
			Pattern(KindPattern, NormalizeInt, reviewPatterns...),
			MaxParenthesized(KindSalvage),
		},
		Rating: Chain[float64]{
			Selector(KindStructured, NormalizeRating, `div.review-info span.rate`),
			Selector(KindRelaxed, NormalizeRating, `span.rate`, `.review-info .rate`),
			Anchor(KindAnchor, NormalizeRating, LabelRating),
			Pattern(KindPattern, NormalizeRating, ratingPatterns...),
		},
	}
}

// Extract evaluates every chain against p. Metrics whose chain misses keep
// their unknown value (0 or nil).
func (e *Extractor) Extract(p Page, now time.Time) *models.ExtractionResult {
	result := &models.ExtractionResult{
		CollectedAt: now,
		Strategies:  make(map[models.Metric]string, 3),
	}
	if v, name, ok := e.Hirings.Evaluate(p); ok {
		result.Hirings = v
		result.Strategies[models.MetricHirings] = name
	}
	if v, name, ok := e.Reviews.Evaluate(p); ok {
		result.Reviews = v
		result.Strategies[models.MetricReviews] = name
	}
	if v, name, ok := e.Rating.Evaluate(p); ok {
		result.Rating = models.Float(v)
		result.Strategies[models.MetricRating] = name
	}
	return result
}
