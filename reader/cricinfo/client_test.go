package cricinfo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cricketflow/config"
)

func testConfig(baseURL, summaryURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Reader.Timeout = 5 * time.Second
	cfg.Reader.PollInterval = 30 * time.Second
	cfg.Reader.RateLimit.RequestsPerSecond = 100
	cfg.Reader.RateLimit.BurstSize = 10
	cfg.Source.Cricinfo.BaseURL = baseURL
	cfg.Source.Cricinfo.SummaryURL = summaryURL
	return cfg
}

func TestFetchMatchDecodesDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/matches/engine/match/1381217.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"match": {"result": "0", "match_status": "current", "live_state": ""},
			"team": [
				{"team_name": "England", "team_abbreviation": "ENG", "content_id": "1"},
				{"team_name": "Australia", "team_abbreviation": "AUS", "content_id": 2}
			],
			"innings": [
				{"batting_team_id": "1", "bowling_team_id": "2", "runs": "241", "wickets": "10",
				 "event_name": "all out", "live_current": "0", "live_current_name": ""}
			],
			"live": {"status": "Day 2: session underway", "recent_overs": [], "batting": []},
			"comms": []
		}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	doc, err := client.FetchMatch(context.Background(), "1381217")
	if err != nil {
		t.Fatalf("FetchMatch: %v", err)
	}
	if doc.Match == nil || doc.Match.Result != "0" {
		t.Fatalf("match record not decoded: %+v", doc.Match)
	}
	if len(doc.Team) != 2 || doc.Team[0].ContentID != 1 || doc.Team[1].ContentID != 2 {
		t.Fatalf("quoted and bare team ids should both decode: %+v", doc.Team)
	}
	if len(doc.Innings) != 1 || doc.Innings[0].Runs != 241 {
		t.Fatalf("innings not decoded: %+v", doc.Innings)
	}
}

func TestFetchMatchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	_, err := client.FetchMatch(context.Background(), "999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchMatchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	_, err := client.FetchMatch(context.Background(), "1381217")
	if err == nil {
		t.Fatal("expected error on 500 response")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("500 should not map to ErrNotFound: %v", err)
	}
}
