package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"

	"ArgusIntel/internal/domain"
	"ArgusIntel/internal/scanner"
)

// Keywords used only to pre-filter obviously off-topic pages before they
// reach the analysis engine; the engine applies the real scoring.
var prefilterKeywords = []string{
	"defense", "defence", "military", "army", "navy", "air force", "border",
	"terrorism", "terrorist", "security", "intelligence", "surveillance",
	"threat", "attack", "weapons", "missile", "drone", "cyber", "warfare",
	"conflict", "ceasefire", "infiltration", "encounter",
}

// Selectors that catch article links on most news section pages.
var linkSelectors = []string{
	`a[href*="/news/"]`,
	`a[href*="/article"]`,
	`a[href*="/story"]`,
	`h2 a`, `h3 a`,
}

// NewsSiteScanner crawls configured section pages of a news site, follows
// article links, and extracts cleaned plain text for each article.
type NewsSiteScanner struct {
	client           *http.Client
	limiter          *rate.Limiter
	minContentLength int
	maxPerSection    int
}

// NewNewsSiteScanner wires an HTTP client; requestsPerMinute throttles all
// outbound fetches across sections.
func NewNewsSiteScanner(client *http.Client, requestsPerMinute, minContentLength, maxPerSection int) *NewsSiteScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if minContentLength <= 0 {
		minContentLength = 100
	}
	if maxPerSection <= 0 {
		maxPerSection = 20
	}
	return &NewsSiteScanner{
		client:           client,
		limiter:          rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		minContentLength: minContentLength,
		maxPerSection:    maxPerSection,
	}
}

// Name identifies the strategy inside the registry.
func (n *NewsSiteScanner) Name() string {
	return "newssite"
}

// Scan walks every section page, collects candidate article links, fetches
// each article, and keeps those that pass the defense pre-filter.
func (n *NewsSiteScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	if len(req.Sections) == 0 {
		return nil, fmt.Errorf("no sections provided for site %s", req.SiteName)
	}

	maxPerSection := n.maxPerSection
	if v, ok := req.Options["maxArticles"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxPerSection = parsed
		}
	}

	results := make([]domain.Article, 0)
	seen := map[string]struct{}{}

	for _, section := range req.Sections {
		links, err := n.extractLinks(ctx, section.URL)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", section.Name, err)
		}

		fetched := 0
		for _, link := range links {
			if fetched >= maxPerSection {
				break
			}
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}

			article, err := n.fetchArticle(ctx, link, req.SiteName, section.Name, req.Now)
			if err != nil {
				continue
			}
			fetched++

			if len(article.Content) < n.minContentLength {
				continue
			}
			if !looksDefenseRelated(article.Title, article.Content) {
				continue
			}
			results = append(results, article)
		}
	}

	return results, nil
}

func (n *NewsSiteScanner) extractLinks(ctx context.Context, sectionURL string) ([]string, error) {
	doc, base, err := n.fetchDocument(ctx, sectionURL)
	if err != nil {
		return nil, err
	}

	var links []string
	seen := map[string]struct{}{}
	for _, selector := range linkSelectors {
		doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			href, exists := sel.Attr("href")
			if !exists {
				return
			}
			resolved := resolveLink(base, href)
			if resolved == "" {
				return
			}
			if _, ok := seen[resolved]; ok {
				return
			}
			seen[resolved] = struct{}{}
			links = append(links, resolved)
		})
	}

	return links, nil
}

func (n *NewsSiteScanner) fetchArticle(ctx context.Context, pageURL, siteName, section string, now time.Time) (domain.Article, error) {
	resp, err := n.get(ctx, pageURL)
	if err != nil {
		return domain.Article{}, err
	}
	defer resp.Body.Close()

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return domain.Article{}, fmt.Errorf("parse url %s: %w", pageURL, err)
	}

	extracted, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return domain.Article{}, fmt.Errorf("extract content %s: %w", pageURL, err)
	}

	return domain.Article{
		Title:     strings.TrimSpace(extracted.Title),
		Content:   strings.TrimSpace(extracted.TextContent),
		URL:       pageURL,
		Source:    fmt.Sprintf("%s/%s", siteName, section),
		ScrapedAt: now.UTC(),
	}, nil
}

func (n *NewsSiteScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	resp, err := n.get(ctx, pageURL)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse url %s: %w", pageURL, err)
	}

	return doc, base, nil
}

func (n *NewsSiteScanner) get(ctx context.Context, pageURL string) (*http.Response, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ArgusIntel/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("site returned %s", resp.Status)
	}

	return resp, nil
}

func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host != base.Host {
		return ""
	}
	resolved.Fragment = ""
	link := resolved.String()
	if link == base.String() {
		return ""
	}
	return link
}

// looksDefenseRelated requires at least two distinct keyword hits, matching
// the upstream source filter.
func looksDefenseRelated(title, content string) bool {
	text := strings.ToLower(title + " " + content)
	hits := 0
	for _, kw := range prefilterKeywords {
		if strings.Contains(text, kw) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}
