package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/token",
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "refresh",
	})
}

func TestFetchActivitiesPaging(t *testing.T) {
	t.Parallel()

	pages := map[int][]Activity{
		1: {{ID: 1, Type: "course"}, {ID: 2, Type: "velo"}},
		2: {{ID: 3, Type: "course"}},
	}

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/users/7/activities" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization = %q", got)
		}

		pageNum, _ := strconv.Atoi(r.URL.Query().Get("page"))
		items := pages[pageNum]
		json.NewEncoder(w).Encode(page[Activity]{
			Items:   items,
			HasMore: pageNum < 2,
		})
	})

	got, err := client.FetchActivities(context.Background(), 7, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("activities = %d, want 3 across pages", len(got))
	}
	if got[0].ID != 1 || got[2].ID != 3 {
		t.Errorf("page order lost: %+v", got)
	}
}

func TestFetchActivitiesSince(t *testing.T) {
	t.Parallel()

	var sinceSeen string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		sinceSeen = r.URL.Query().Get("since")
		json.NewEncoder(w).Encode(page[Activity]{})
	})

	since := time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC)
	if _, err := client.FetchActivities(context.Background(), 7, since); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sinceSeen != "2025-03-20" {
		t.Errorf("since = %q, want 2025-03-20", sinceSeen)
	}
}

func TestFetchProfile(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/users/7/profile" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"id":7,"name":"Jo","fc_max":188,"fc_repos":52}`)
	})

	got, err := client.FetchProfile(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 7 || got.Name != "Jo" {
		t.Errorf("profile = %+v", got)
	}
	if got.MaxHR == nil || *got.MaxHR != 188 {
		t.Errorf("fc_max = %v", got.MaxHR)
	}
	if got.RestingHR == nil || *got.RestingHR != 52 {
		t.Errorf("fc_repos = %v", got.RestingHR)
	}
}

func TestFetchErrorStatus(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	if _, err := client.FetchProfile(context.Background(), 7); err == nil {
		t.Fatal("expected error on 403")
	}
}
