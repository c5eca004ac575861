package roastworld

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crimson-sun/artisanize/internal/connector"
	"github.com/crimson-sun/artisanize/internal/connector/httpclient"
	"github.com/crimson-sun/artisanize/internal/engine/testdata"
)

func TestExtractRoastID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0QQFP4AFGdZC34Il64oPQ", "0QQFP4AFGdZC34Il64oPQ"},
		{"  0QQFP4AFGdZC34Il64oPQ\n", "0QQFP4AFGdZC34Il64oPQ"},
		{"https://roast.world/sweetmarias/roasts/0QQFP4AFGdZC34Il64oPQ", "0QQFP4AFGdZC34Il64oPQ"},
		{"https://roast.world/someone/roasts/ab_c-12?tab=graph", "ab_c-12"},
		{"roast.world/x/roasts/abc/", "abc"},
		{"https://example.com/roasts/abc", "https://example.com/roasts/abc"},
	}
	for _, tt := range tests {
		if got := ExtractRoastID(tt.input); got != tt.want {
			t.Errorf("ExtractRoastID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestObjectPath(t *testing.T) {
	s := New(connector.Config{})
	got := s.ObjectPath("0QQFP4AFGdZC34Il64oPQ")
	want := "/v0/b/testaillio.appspot.com/o/roasts%2F0QQFP4AFGdZC34Il64oPQ.json"
	if got != want {
		t.Fatalf("ObjectPath = %q, want %q", got, want)
	}
}

func TestFetch(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write(testdata.SampleJSON())
	}))
	defer srv.Close()

	s := New(connector.Config{Endpoint: srv.URL + "/", Bucket: "bucket"})
	rec, err := s.Fetch(context.Background(), "https://roast.world/sweetmarias/roasts/0QQFP4AFGdZC34Il64oPQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v0/b/bucket/o/roasts%2F0QQFP4AFGdZC34Il64oPQ.json" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotQuery != "alt=media" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
	if rec.UID == nil || *rec.UID != "0QQFP4AFGdZC34Il64oPQ" {
		t.Fatalf("unexpected uid: %v", rec.UID)
	}
	if len(rec.BeanTemperature) != 120 {
		t.Fatalf("expected 120 bean readings, got %d", len(rec.BeanTemperature))
	}
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":404,"message":"Not Found."}}`))
	}))
	defer srv.Close()

	s := New(connector.Config{Endpoint: srv.URL})
	_, err := s.Fetch(context.Background(), "missing")
	if !errors.Is(err, connector.ErrRetrieval) {
		t.Fatalf("expected retrieval error, got %v", err)
	}
	var re *connector.RetrievalError
	if !errors.As(err, &re) || re.Ref != "missing" {
		t.Fatalf("expected *RetrievalError for ref 'missing', got %v", err)
	}
	var apiErr *httpclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected wrapped 404 *APIError, got %v", err)
	}
}

func TestFetchEmptyID(t *testing.T) {
	s := New(connector.Config{Endpoint: "http://127.0.0.1:1"})
	if _, err := s.Fetch(context.Background(), "   "); !errors.Is(err, connector.ErrRetrieval) {
		t.Fatalf("expected retrieval error, got %v", err)
	}
}

func TestRegistered(t *testing.T) {
	ctor, err := connector.Get(connector.ProviderRoastWorld)
	if err != nil {
		t.Fatalf("roastworld not registered: %v", err)
	}
	if _, ok := ctor(connector.Config{}).(*Source); !ok {
		t.Fatal("constructor did not return *Source")
	}
}
