package jellyfin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://media.local:8096", normalizeURL(" media.local:8096/ "))
	assert.Equal(t, "http://10.0.0.2", normalizeURL("http://10.0.0.2/"))
}

func TestGetStreamURL(t *testing.T) {
	c := NewClient("http://media.local:8096")
	c.SetToken("tok", "user")

	u, err := url.Parse(c.GetStreamURL("abc 123"))
	require.NoError(t, err)
	assert.Equal(t, "/Videos/abc 123/stream", u.Path)
	assert.Equal(t, "true", u.Query().Get("Static"))
	assert.Equal(t, "tok", u.Query().Get("api_key"))
}

func TestTicks(t *testing.T) {
	assert.Equal(t, int64(30_000_000), Ticks(3*time.Second))
	assert.Equal(t, 5*time.Minute, Duration(3_000_000_000))
	assert.Equal(t, 90*time.Second, Item{RuntimeTicks: 900_000_000}.Runtime())
}

func TestReportPlaybackHitsPlaystateEndpoints(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	var tokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		tokens = append(tokens, r.Header.Get("X-Emby-Token"))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("secret", "user")
	ctx := context.Background()

	require.NoError(t, c.ReportPlaybackStart(ctx, "item1", 0))
	require.NoError(t, c.ReportPlaybackStopped(ctx, "item1", Ticks(time.Minute)))

	assert.Equal(t, []string{"POST /Sessions/Playing", "POST /Sessions/Playing/Stopped"}, paths)
	assert.Equal(t, []string{"secret", "secret"}, tokens)
}

type report struct {
	kind  string
	item  string
	ticks int64
}

type fakePlaystate struct {
	mu      sync.Mutex
	reports []report
	err     error
}

func (f *fakePlaystate) add(r report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, r)
	return f.err
}

func (f *fakePlaystate) ReportPlaybackStart(_ context.Context, itemID string, ticks int64) error {
	return f.add(report{"start", itemID, ticks})
}

func (f *fakePlaystate) ReportPlaybackStopped(_ context.Context, itemID string, ticks int64) error {
	return f.add(report{"stopped", itemID, ticks})
}

func TestReporterOnlyReportsLibrarySessions(t *testing.T) {
	ps := &fakePlaystate{}
	r := NewReporter(ps, map[string]string{"primary": "movie1"}, slog.New(slog.DiscardHandler))

	// into the feature
	r.Handoff("interstitial", 30*time.Second, "primary", 0)
	r.Wait()
	assert.Equal(t, []report{{"start", "movie1", 0}}, ps.reports)

	// out to a break
	r.Handoff("primary", 5*time.Minute, "interstitial", 0)
	r.Wait()
	assert.Equal(t, report{"stopped", "movie1", Ticks(5 * time.Minute)}, ps.reports[1])
	assert.Len(t, ps.reports, 2)
}

func TestReporterSwallowsErrors(t *testing.T) {
	ps := &fakePlaystate{err: errors.New("server down")}
	r := NewReporter(ps, map[string]string{"primary": "movie1"}, slog.New(slog.DiscardHandler))

	assert.NotPanics(t, func() {
		r.Handoff("primary", time.Second, "interstitial", 0)
		r.Wait()
	})
}
