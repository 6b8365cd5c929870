package cricinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchSummaryParsesListings(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Live Scores</title>
    <item>
      <title>England v Australia  5th Test</title>
      <link>https://static.espncricinfo.com/rss/livescores/1381217_645726171234.html</link>
    </item>
    <item>
      <title>India v Pakistan</title>
      <link>https://static.espncricinfo.com/rss/livescores/1381300_645726179999.html</link>
    </item>
    <item>
      <title>Broken entry</title>
      <link>https://static.espncricinfo.com/rss/short.html</link>
    </item>
  </channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(feed))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	listings, err := client.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("FetchSummary: %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d: %+v", len(listings), listings)
	}
	if listings[0].ID != "1381217" {
		t.Fatalf("expected match id 1381217, got %q", listings[0].ID)
	}
	if listings[0].Title != "England v Australia 5th Test" {
		t.Fatalf("doubled spaces should collapse, got %q", listings[0].Title)
	}
	if listings[1].ID != "1381300" {
		t.Fatalf("expected match id 1381300, got %q", listings[1].ID)
	}
}

func TestListingID(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://host/rss/livescores/1381217_645726171234.html", "1381217"},
		{"https://host/rss/short.html", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := listingID(tt.link); got != tt.want {
			t.Errorf("listingID(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}
