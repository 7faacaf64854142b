//go:build integration || !unit

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	httpserver "review_pulse/internal/adapters/http_server"
	redisad "review_pulse/internal/adapters/redis"
	"review_pulse/internal/app"
	"review_pulse/internal/domain"
	"review_pulse/internal/storage/csvstore"
)

const datasetCSV = `published_date,rating,helpful_votes,published_platform,type,title,text
2024-01-05T08:00:00Z,5,2,Web,review,Superb,Wonderful cabin and friendly service
2024-01-20T10:30:00Z,1,4,App,review,Never again,Lost my luggage and nobody helped
2024-02-11T09:15:00Z,4,0,Web,review,Solid,Comfortable and punctual
2024-03-02T12:00:00Z,,6,Web,trip,,
not-a-date,3,1,Desktop,review,Meh,Average experience overall
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte(datasetCSV), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

// Full stack: CSV store, redis cache (miniredis), query service, router.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	store := csvstore.New(writeDataset(t))
	cache := redisad.New(mr.Addr(), "", 0)
	q := app.NewQueryService(store, cache, 5*time.Minute, 100, 50)

	srv := httpserver.New(0)
	srv.MountHandlers(&httpserver.Handlers{Q: q})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func getView(t *testing.T, url string) domain.DashboardView {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var view domain.DashboardView
	if err := json.NewDecoder(res.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return view
}

func TestHTTP_EndToEnd_DefaultDashboard(t *testing.T) {
	ts := startServer(t)

	view := getView(t, ts.URL+"/v1/dashboard")

	// default spec covers the whole range; nil rating and nil date rows are
	// excluded by the between-test and the date bounds
	if view.Stats.TotalCount != 3 {
		t.Fatalf("total: %d", view.Stats.TotalCount)
	}
	if view.Stats.AverageRating == nil || *view.Stats.AverageRating != (5.0+1+4)/3 {
		t.Fatalf("average: %v", view.Stats.AverageRating)
	}
	if len(view.MonthlyTrend) != 2 { // 2024-01 and 2024-02; March row has no rating
		t.Fatalf("trend: %+v", view.MonthlyTrend)
	}
	if view.MonthlyTrend[0].Month != "2024-01" || view.MonthlyTrend[0].Count != 2 {
		t.Fatalf("trend head: %+v", view.MonthlyTrend[0])
	}
	// most recent first
	if view.Sample[0].Title == nil || *view.Sample[0].Title != "Solid" {
		t.Fatalf("sample order: %+v", view.Sample)
	}
	// keyword clouds skip stopwords and keep review language
	found := false
	for _, k := range view.PositiveKeywords {
		if k.Word == "comfortable" {
			found = true
		}
	}
	if !found {
		t.Fatalf("positive keywords: %+v", view.PositiveKeywords)
	}
}

func TestHTTP_EndToEnd_FilteredAndEmpty(t *testing.T) {
	ts := startServer(t)

	// negative-only band
	view := getView(t, ts.URL+"/v1/dashboard?rating_min=1&rating_max=2")
	if view.Stats.TotalCount != 1 || view.Stats.NegativeShare != 100 {
		t.Fatalf("negative band: %+v", view.Stats)
	}
	if len(view.PositiveKeywords) == 0 {
		t.Fatalf("empty positive band must yield placeholder keywords")
	}

	// a window with no rows is a valid, empty dashboard
	empty := getView(t, ts.URL+fmt.Sprintf("/v1/dashboard?start=%s&end=%s", "2030-01-01", "2030-12-31"))
	if empty.Stats.TotalCount != 0 || empty.Stats.AverageRating != nil {
		t.Fatalf("empty window: %+v", empty.Stats)
	}
	if len(empty.RatingHistogram) != 0 || len(empty.MonthlyTrend) != 0 {
		t.Fatalf("empty charts: %+v", empty)
	}
}

func TestHTTP_EndToEnd_SecondRequestServedFromCache(t *testing.T) {
	ts := startServer(t)

	first := getView(t, ts.URL+"/v1/dashboard")
	second := getView(t, ts.URL+"/v1/dashboard")
	if first.Stats.TotalCount != second.Stats.TotalCount {
		t.Fatalf("cache changed the answer: %+v vs %+v", first.Stats, second.Stats)
	}
}
