package pagerduty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

type pageServer struct {
	mu      sync.Mutex
	offsets []int
	queries []string
	headers []http.Header
}

func newPagedServer(t *testing.T, total, pageSize int) (*httptest.Server, *pageServer) {
	t.Helper()
	ps := &pageServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		ps.mu.Lock()
		ps.offsets = append(ps.offsets, offset)
		ps.queries = append(ps.queries, r.URL.RawQuery)
		ps.headers = append(ps.headers, r.Header.Clone())
		ps.mu.Unlock()

		var teams []map[string]any
		for i := offset; i < total && i < offset+limit; i++ {
			teams = append(teams, map[string]any{"id": fmt.Sprintf("T%03d", i), "name": fmt.Sprintf("team-%d", i)})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"teams":  teams,
			"limit":  limit,
			"offset": offset,
			"more":   offset+pageSize < total,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, ps
}

func newTestClient(t *testing.T, baseURL string) *HTTPClient {
	t.Helper()
	client, err := NewHTTPClient(HTTPConfig{BaseURL: baseURL, TokenSource: &StaticTokenSource{Value: "secret"}})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestListFollowsPagination(t *testing.T) {
	srv, ps := newPagedServer(t, 250, 100)
	client := newTestClient(t, srv.URL)

	records, err := client.List(context.Background(), TeamsResource)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 250 {
		t.Fatalf("expect 250 records, got %d", len(records))
	}
	for i, r := range records {
		if want := fmt.Sprintf("T%03d", i); r.String("id") != want {
			t.Fatalf("record %d: expect id %s, got %s", i, want, r.String("id"))
		}
	}
	want := []int{0, 100, 200}
	if len(ps.offsets) != len(want) {
		t.Fatalf("expect %d requests, got %d (%v)", len(want), len(ps.offsets), ps.offsets)
	}
	for i := range want {
		if ps.offsets[i] != want[i] {
			t.Fatalf("request %d: expect offset %d, got %d", i, want[i], ps.offsets[i])
		}
	}
}

func TestListSendsHeaders(t *testing.T) {
	srv, ps := newPagedServer(t, 1, 100)
	client := newTestClient(t, srv.URL)

	if _, err := client.List(context.Background(), TeamsResource); err != nil {
		t.Fatalf("list: %v", err)
	}
	h := ps.headers[0]
	if got := h.Get("Accept"); got != DefaultAccept {
		t.Fatalf("unexpected accept header %q", got)
	}
	if got := h.Get("Authorization"); got != "Token token=secret" {
		t.Fatalf("unexpected authorization header %q", got)
	}
}

func TestListMergesExtraParams(t *testing.T) {
	var gotInclude, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotInclude = r.URL.Query().Get("include[]")
		gotLimit = r.URL.Query().Get("limit")
		if r.URL.Path != "/services" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"services":[],"more":false}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if _, err := client.List(context.Background(), ServicesResource); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotInclude != "integrations" {
		t.Fatalf("expected include[]=integrations, got %q", gotInclude)
	}
	if gotLimit != "100" {
		t.Fatalf("expected limit=100, got %q", gotLimit)
	}
}

func TestListHTTPErrorIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"message":"Unauthorized"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.List(context.Background(), UsersResource)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", httpErr.StatusCode)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one request, got %d", calls)
	}
}

func TestListFailsOnSecondPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "100" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"users":[{"id":"U1"}],"more":true}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	records, err := client.List(context.Background(), UsersResource)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 HTTPError, got %v", err)
	}
	if records != nil {
		t.Fatalf("expected no partial result, got %d records", len(records))
	}
}

func TestListUnexpectedShape(t *testing.T) {
	cases := map[string]string{
		"object": `{"teams":{"id":"T1"},"more":false}`,
		"null":   `{"teams":null,"more":false}`,
		"string": `{"teams":"oops"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			_, err := client.List(context.Background(), TeamsResource)
			var shapeErr *UnexpectedResponseShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("expected *UnexpectedResponseShapeError, got %v", err)
			}
			if shapeErr.Key != "teams" || shapeErr.Got != name {
				t.Fatalf("unexpected shape error %+v", shapeErr)
			}
		})
	}
}

func TestListMissingKeyIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"more":false}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	records, err := client.List(context.Background(), TeamsResource)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestListKeepsNumbersVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"teams":[{"id":"T1","weight":12345678901234}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	records, err := client.List(context.Background(), TeamsResource)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := records[0].String("weight"); got != "12345678901234" {
		t.Fatalf("unexpected number rendering %q", got)
	}
}

func TestNewHTTPClientRequiresTokenSource(t *testing.T) {
	if _, err := NewHTTPClient(HTTPConfig{}); err == nil {
		t.Fatalf("expected error without token source")
	}
}

func TestStaticClient(t *testing.T) {
	boom := errors.New("boom")
	client := &StaticClient{
		Data: map[string][]Record{"teams": {{"id": "T1"}}},
		Err:  map[string]error{"users": boom},
	}
	records, err := client.List(context.Background(), TeamsResource)
	if err != nil || len(records) != 1 {
		t.Fatalf("unexpected result %v %v", records, err)
	}
	if _, err := client.List(context.Background(), UsersResource); !errors.Is(err, boom) {
		t.Fatalf("expected configured error, got %v", err)
	}
}
