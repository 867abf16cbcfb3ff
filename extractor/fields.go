package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/mr-zlaam/googleMapScraper/models"
)

// titleSuffix is appended by the site to every place page title.
const titleSuffix = " - Google Maps"

var (
	selTitle            = cascadia.MustCompile(`title`)
	selAddress          = cascadia.MustCompile(`button[aria-label*="Address"]`)
	selPhone            = cascadia.MustCompile(`button[aria-label*="Phone"]`)
	selWebsite          = cascadia.MustCompile(`a[aria-label*="Website"]`)
	selRating           = cascadia.MustCompile(`span[aria-label*="stars"], div[aria-label*="stars"]`)
	selCategory         = cascadia.MustCompile(`button[aria-label*="Category"]`)
	selCategoryFallback = cascadia.MustCompile(`span[class*="fontBodyMedium"]`)
	selSpan             = cascadia.MustCompile(`span`)
	selDescription      = cascadia.MustCompile(`meta[property="og:description"]`)

	nonASCII     = regexp.MustCompile(`[^\x00-\x7F]+`)
	decimal      = regexp.MustCompile(`[\d.]+`)
	ratingGlyphs = regexp.MustCompile(`[★☆]+ ?· ?`)

	openStatusMarkers = []string{"Open", "Closed", "Closes"}
)

// FieldResult is the outcome of one field step.
type FieldResult struct {
	Value string
	Err   error
}

// snapshot is the loaded page state every field step reads from.
type snapshot struct {
	doc      *goquery.Document
	title    string
	titleErr error
}

type fieldStep struct {
	field    models.Field
	fallback string
	run      func(*snapshot) (string, error)
}

var fieldSteps = []fieldStep{
	{field: models.FieldName, run: extractName},
	{field: models.FieldAddress, run: extractAddress},
	{field: models.FieldPhone, run: extractPhone},
	{field: models.FieldWebsite, run: extractWebsite},
	{field: models.FieldRating, run: extractRating},
	{field: models.FieldCategory, fallback: models.DefaultCategory, run: extractCategory},
	{field: models.FieldOpeningHours, run: extractOpeningHours},
	{field: models.FieldShortDescription, run: extractShortDescription},
}

// extractFields runs every step and applies the defaults for failed ones.
func (e *Extractor) extractFields(target string, snap *snapshot) map[models.Field]string {
	fields := make(map[models.Field]string, len(fieldSteps))
	for _, step := range fieldSteps {
		res := runStep(step, snap)
		if res.Err != nil {
			e.logger.Debug("field unavailable",
				"url", target,
				"field", step.field,
				"error", res.Err,
			)
			fields[step.field] = step.fallback
			continue
		}
		fields[step.field] = res.Value
	}
	return fields
}

// runStep executes a single step, turning a panic into a field error.
func runStep(step fieldStep, snap *snapshot) (res FieldResult) {
	defer func() {
		if r := recover(); r != nil {
			res = FieldResult{Err: fieldError(step.field, fmt.Sprintf("panic: %v", r))}
		}
	}()
	v, err := step.run(snap)
	return FieldResult{Value: v, Err: err}
}

func fieldError(field models.Field, msg string) error {
	return models.NewScrapeError(models.ErrCodeFieldExtraction, fmt.Sprintf("%s: %s", field, msg), nil)
}

func notFound(field models.Field) error {
	return fieldError(field, "element not found")
}

// first returns the first element matching m, in document order.
func first(doc *goquery.Document, m goquery.Matcher) (*goquery.Selection, bool) {
	sel := doc.FindMatcher(m).First()
	return sel, sel.Length() > 0
}

// cleanText drops non-ASCII runs (icon glyphs) and surrounding whitespace.
func cleanText(s string) string {
	return strings.TrimSpace(nonASCII.ReplaceAllString(s, ""))
}

func extractName(snap *snapshot) (string, error) {
	title := snap.title
	if snap.titleErr != nil || title == "" {
		// Fall back to the <title> element of the loaded snapshot.
		if sel, ok := first(snap.doc, selTitle); ok {
			title = sel.Text()
		}
	}
	if title == "" {
		if snap.titleErr != nil {
			return "", snap.titleErr
		}
		return "", fieldError(models.FieldName, "page has no title")
	}
	return strings.TrimSpace(strings.ReplaceAll(title, titleSuffix, "")), nil
}

func extractAddress(snap *snapshot) (string, error) {
	sel, ok := first(snap.doc, selAddress)
	if !ok {
		return "", notFound(models.FieldAddress)
	}
	return cleanText(sel.Text()), nil
}

func extractPhone(snap *snapshot) (string, error) {
	sel, ok := first(snap.doc, selPhone)
	if !ok {
		return "", notFound(models.FieldPhone)
	}
	return cleanText(sel.Text()), nil
}

func extractWebsite(snap *snapshot) (string, error) {
	sel, ok := first(snap.doc, selWebsite)
	if !ok {
		return "", notFound(models.FieldWebsite)
	}
	href, _ := sel.Attr("href")
	return href, nil
}

func extractRating(snap *snapshot) (string, error) {
	sel, ok := first(snap.doc, selRating)
	if !ok {
		return "", notFound(models.FieldRating)
	}
	label, _ := sel.Attr("aria-label")
	rating := decimal.FindString(label)
	if rating == "" {
		return "", fieldError(models.FieldRating, fmt.Sprintf("no number in label %q", label))
	}
	return rating, nil
}

func extractCategory(snap *snapshot) (string, error) {
	sel, ok := first(snap.doc, selCategory)
	if !ok {
		sel, ok = first(snap.doc, selCategoryFallback)
	}
	if !ok {
		return "", notFound(models.FieldCategory)
	}
	return strings.TrimSpace(sel.Text()), nil
}

func extractOpeningHours(snap *snapshot) (string, error) {
	sel := snap.doc.FindMatcher(selSpan).FilterFunction(func(_ int, s *goquery.Selection) bool {
		own := ownText(s.Get(0))
		for _, marker := range openStatusMarkers {
			if strings.Contains(own, marker) {
				return true
			}
		}
		return false
	}).First()
	if sel.Length() == 0 {
		return "", notFound(models.FieldOpeningHours)
	}
	return strings.TrimSpace(sel.Text()), nil
}

func extractShortDescription(snap *snapshot) (string, error) {
	sel, ok := first(snap.doc, selDescription)
	if !ok {
		return "", notFound(models.FieldShortDescription)
	}
	content, _ := sel.Attr("content")
	return strings.TrimSpace(ratingGlyphs.ReplaceAllString(content, "")), nil
}

// ownText concatenates the direct text children of n.
func ownText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
