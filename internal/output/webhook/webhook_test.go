package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crimson-sun/artisanize/internal/model"
	"github.com/crimson-sun/artisanize/internal/output"
)

func testProfile() *model.Profile {
	return &model.Profile{
		Header: []model.Field{{Key: "Unit", Value: "F"}},
		Rows: []model.Row{
			{Time: "00:00", ET: 302, BT: 68, Event: model.EventCharge},
			{Time: "00:01", ET: 304, BT: 70, Event: model.EventDrop},
		},
		Summary: model.Summary{RoastName: "Kenya AA", UID: "k3nyaAA12345"},
	}
}

func TestWritePostsProfile(t *testing.T) {
	var gotBody, gotType, gotDisposition, gotUID, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotType = r.Header.Get("Content-Type")
		gotDisposition = r.Header.Get("Content-Disposition")
		gotUID = r.Header.Get("X-Roast-UID")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	out := New(srv.URL, WithHeaders(map[string]string{"Authorization": "Bearer secret"}))
	p := testProfile()
	if err := out.Write(context.Background(), p); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if gotBody != string(p.Bytes()) {
		t.Errorf("body = %q", gotBody)
	}
	if gotType != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if gotDisposition != `attachment; filename="Kenya_AA_k3nyaAA1.csv"` {
		t.Errorf("Content-Disposition = %q", gotDisposition)
	}
	if gotUID != "k3nyaAA12345" {
		t.Errorf("X-Roast-UID = %q", gotUID)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestRetryOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBaseDelay(time.Millisecond))
	if err := out.Write(context.Background(), testProfile()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("calls = %d, want 3", n)
	}
}

func TestGiveUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBaseDelay(time.Millisecond))
	err := out.Write(context.Background(), testProfile())
	if !errors.Is(err, output.ErrSerialization) {
		t.Fatalf("err = %v, want serialization error", err)
	}
	var serr *output.SerializationError
	if !errors.As(err, &serr) || serr.Path != srv.URL {
		t.Fatalf("error should name the webhook URL: %v", err)
	}
	if n := calls.Load(); n != maxRetries+1 {
		t.Fatalf("calls = %d, want %d", n, maxRetries+1)
	}
}

func TestNoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBaseDelay(time.Millisecond))
	if err := out.Write(context.Background(), testProfile()); err == nil {
		t.Fatal("expected error on 400")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out := New(srv.URL, WithBaseDelay(time.Hour))
	err := out.Write(ctx, testProfile())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	out := New(url, WithTimeout(time.Second))
	if err := out.Write(context.Background(), testProfile()); err == nil {
		t.Fatal("expected error for closed server")
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
