package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"ArgusIntel/internal/scanner"
)

const defenseArticleBody = `
<html>
<head><title>Army steps up border patrols</title></head>
<body>
<article>
<p>The army has increased patrols along the border following reports of
infiltration attempts. Security forces said additional surveillance
equipment has been deployed to monitor movement across the sector.</p>
<p>Officials confirmed that military units will remain on alert through
the week while intelligence agencies assess the latest threat reports
from the region. Local commanders described the situation as tense but
under control.</p>
</article>
</body>
</html>`

const sportsArticleBody = `
<html>
<head><title>Home side wins the cup final</title></head>
<body>
<article>
<p>The home side lifted the trophy after a dramatic penalty shootout in
front of a capacity crowd. The captain praised the supporters for their
patience through a long and difficult season of rebuilding.</p>
<p>The coaching staff now turn their attention to the transfer window,
with several senior players expected to depart over the summer break
as the club refreshes its squad.</p>
</article>
</body>
</html>`

func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/defence", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<h2><a href="/news/patrols">Army steps up border patrols</a></h2>
			<h2><a href="/news/cup-final">Home side wins the cup final</a></h2>
			<h3><a href="https://other.example.org/news/external">External story</a></h3>
		</body></html>`)
	})
	mux.HandleFunc("/news/patrols", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, defenseArticleBody)
	})
	mux.HandleFunc("/news/cup-final", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sportsArticleBody)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestScanKeepsDefenseArticlesOnly(t *testing.T) {
	server := newTestSite(t)
	s := NewNewsSiteScanner(server.Client(), 6000, 50, 10)

	now := time.Date(2026, time.August, 20, 10, 0, 0, 0, time.UTC)
	articles, err := s.Scan(context.Background(), scanner.Request{
		Now:      now,
		SiteName: "testsite",
		Sections: []scanner.Section{{Name: "defence", URL: server.URL + "/defence"}},
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	article := articles[0]
	if article.URL != server.URL+"/news/patrols" {
		t.Errorf("unexpected URL %s", article.URL)
	}
	if !strings.Contains(strings.ToLower(article.Content), "border") {
		t.Errorf("content missing expected text: %q", article.Content)
	}
	if article.Source != "testsite/defence" {
		t.Errorf("unexpected source %s", article.Source)
	}
	if !article.ScrapedAt.Equal(now) {
		t.Errorf("unexpected scraped time %v", article.ScrapedAt)
	}
}

func TestScanHonorsMaxArticlesOption(t *testing.T) {
	var fetched int
	mux := http.NewServeMux()
	mux.HandleFunc("/defence", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<h2><a href="/news/one">One</a></h2>
			<h2><a href="/news/two">Two</a></h2>
		</body></html>`)
	})
	mux.HandleFunc("/news/", func(w http.ResponseWriter, r *http.Request) {
		fetched++
		fmt.Fprint(w, defenseArticleBody)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := NewNewsSiteScanner(server.Client(), 6000, 50, 10)
	_, err := s.Scan(context.Background(), scanner.Request{
		SiteName: "testsite",
		Sections: []scanner.Section{{Name: "defence", URL: server.URL + "/defence"}},
		Options:  map[string]string{"maxArticles": "1"},
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if fetched != 1 {
		t.Errorf("expected 1 article fetch, got %d", fetched)
	}
}

func TestScanRequiresSections(t *testing.T) {
	s := NewNewsSiteScanner(nil, 6000, 50, 10)

	_, err := s.Scan(context.Background(), scanner.Request{SiteName: "testsite"})
	if err == nil {
		t.Fatal("expected error for missing sections")
	}
}

func TestScanSkipsFailedArticleFetches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/defence", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<h2><a href="/news/gone">Gone</a></h2>
			<h2><a href="/news/patrols">Patrols</a></h2>
		</body></html>`)
	})
	mux.HandleFunc("/news/gone", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/news/patrols", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, defenseArticleBody)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := NewNewsSiteScanner(server.Client(), 6000, 50, 10)
	articles, err := s.Scan(context.Background(), scanner.Request{
		SiteName: "testsite",
		Sections: []scanner.Section{{Name: "defence", URL: server.URL + "/defence"}},
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
}

func TestResolveLink(t *testing.T) {
	base, err := url.Parse("https://news.example.org/defence")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		href string
		want string
	}{
		{"relative", "/news/story-1", "https://news.example.org/news/story-1"},
		{"absolute same host", "https://news.example.org/news/story-2", "https://news.example.org/news/story-2"},
		{"other host", "https://other.example.org/news/story", ""},
		{"mailto", "mailto:desk@example.org", ""},
		{"fragment stripped", "/news/story-3#comments", "https://news.example.org/news/story-3"},
		{"self reference", "/defence", ""},
		{"whitespace", "  /news/story-4  ", "https://news.example.org/news/story-4"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveLink(base, tc.href); got != tc.want {
				t.Errorf("resolveLink(%q) = %q, want %q", tc.href, got, tc.want)
			}
		})
	}
}

func TestLooksDefenseRelated(t *testing.T) {
	if looksDefenseRelated("Cup final", "The home side won the trophy") {
		t.Error("sports story should not pass the pre-filter")
	}
	if looksDefenseRelated("Army news", "routine update with no other hits") {
		t.Error("single keyword hit should not pass the pre-filter")
	}
	if !looksDefenseRelated("Army on alert", "patrols along the border continue") {
		t.Error("two keyword hits should pass the pre-filter")
	}
}
