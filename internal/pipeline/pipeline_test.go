package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/crimson-sun/artisanize/internal/connector"
	"github.com/crimson-sun/artisanize/internal/engine"
	"github.com/crimson-sun/artisanize/internal/engine/testdata"
	"github.com/crimson-sun/artisanize/internal/model"
)

// --- mocks ---

type mockSource struct {
	rec model.RoastRecord
	err error
}

func (m *mockSource) Fetch(_ context.Context, ref string) (model.RoastRecord, error) {
	if m.err != nil {
		return model.RoastRecord{}, &connector.RetrievalError{Provider: "mock", Ref: ref, Err: m.err}
	}
	return m.rec, nil
}

type mockOutput struct {
	mu       sync.Mutex
	profiles []*model.Profile
	err      error
}

func (m *mockOutput) Write(_ context.Context, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.profiles = append(m.profiles, p)
	return nil
}

func (m *mockOutput) Close() error { return nil }

func (m *mockOutput) Profiles() []*model.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]*model.Profile, len(m.profiles))
	copy(cp, m.profiles)
	return cp
}

func testEngine() *engine.Engine {
	return engine.New(engine.WithClock(func() time.Time {
		return time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	}))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// --- tests ---

func TestRunWritesProfile(t *testing.T) {
	out := &mockOutput{}
	var logBuf bytes.Buffer
	p := New(&mockSource{rec: testdata.Scenario()}, testEngine(), out,
		WithLogger(slog.New(slog.NewTextHandler(&logBuf, nil))))
	defer p.Close()

	sum, err := p.Run(context.Background(), "abc12345")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Points != 395 {
		t.Fatalf("points = %d, want 395", sum.Points)
	}
	profiles := out.Profiles()
	if len(profiles) != 1 {
		t.Fatalf("expected 1 written profile, got %d", len(profiles))
	}
	if !strings.Contains(logBuf.String(), "16.0% loss") {
		t.Errorf("expected weight loss in report, got: %s", logBuf.String())
	}
	if !strings.Contains(logBuf.String(), "300s (5:00)") {
		t.Errorf("expected first crack in report, got: %s", logBuf.String())
	}
}

func TestRunReportsDuplicates(t *testing.T) {
	rec, err := testdata.LoadSample()
	if err != nil {
		t.Fatal(err)
	}
	var logBuf bytes.Buffer
	p := New(&mockSource{rec: rec}, testEngine(), &mockOutput{},
		WithLogger(slog.New(slog.NewTextHandler(&logBuf, nil))))

	if _, err := p.Run(context.Background(), "sample"); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(logBuf.String(), "duplicate samples") {
		t.Errorf("expected duplicate notice, got: %s", logBuf.String())
	}
}

func TestRunFetchErrorWritesNothing(t *testing.T) {
	out := &mockOutput{}
	p := New(&mockSource{err: errors.New("timeout")}, testEngine(), out, WithLogger(quietLogger()))

	_, err := p.Run(context.Background(), "abc")
	if !errors.Is(err, connector.ErrRetrieval) {
		t.Fatalf("expected retrieval error, got %v", err)
	}
	if len(out.Profiles()) != 0 {
		t.Fatal("no profile should be written after a fetch failure")
	}
}

func TestRunConvertErrorWritesNothing(t *testing.T) {
	rec := testdata.Scenario()
	rec.WeightRoasted = nil
	out := &mockOutput{}
	p := New(&mockSource{rec: rec}, testEngine(), out, WithLogger(quietLogger()))

	_, err := p.Run(context.Background(), "abc")
	if !errors.Is(err, engine.ErrMissingField) {
		t.Fatalf("expected missing field error, got %v", err)
	}
	if len(out.Profiles()) != 0 {
		t.Fatal("no profile should be written after a conversion failure")
	}
}

func TestRunOutputError(t *testing.T) {
	werr := errors.New("disk full")
	p := New(&mockSource{rec: testdata.Scenario()}, testEngine(), &mockOutput{err: werr}, WithLogger(quietLogger()))

	_, err := p.Run(context.Background(), "abc")
	if !errors.Is(err, werr) {
		t.Fatalf("expected output error, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipeline output") {
		t.Fatalf("expected error context, got %v", err)
	}
}
