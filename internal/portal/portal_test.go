package portal

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gemnav/gemnav/internal/config"
	"github.com/gemnav/gemnav/internal/gemini"
	"github.com/gemnav/gemnav/internal/history"
	"github.com/gemnav/gemnav/internal/testutil/gemtest"
	"github.com/gemnav/gemnav/internal/testutil/testlog"
	"github.com/gemnav/gemnav/internal/urlutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestPortal(t *testing.T, withVisits bool) *Portal {
	return newConfiguredPortal(t, config.PortalConfig{Name: "portal-test", Addr: ":0"}, withVisits)
}

func newConfiguredPortal(t *testing.T, cfg config.PortalConfig, withVisits bool) *Portal {
	t.Helper()
	testlog.Start(t)

	var visits *history.Store
	if withVisits {
		var err error
		visits, err = history.Open(":memory:")
		if err != nil {
			t.Fatalf("history.Open: %v", err)
		}
		t.Cleanup(func() { _ = visits.Close() })
	}

	p := New(cfg, gemini.NewClient(gemini.DefaultConfig()), visits)
	p.RegisterRoutes()
	return p
}

func get(t *testing.T, p *Portal, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	p.HTTPRouter().ServeHTTP(rec, req)
	return rec
}

func post(t *testing.T, p *Portal, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	p.HTTPRouter().ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReady(t *testing.T) {
	p := newTestPortal(t, false)

	for _, path := range []string{"/health", "/ready"} {
		rec := get(t, p, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: got=%d want=%d", path, rec.Code, http.StatusOK)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	p := newTestPortal(t, false)

	rec := get(t, p, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics: got=%d want=%d", rec.Code, http.StatusOK)
	}
}

func TestFetchRendersPage(t *testing.T) {
	srv := gemtest.Static(t, []byte("20 text/gemini\r\n# Welcome\n=> /sub Go deeper\n"))
	p := newTestPortal(t, false)

	rec := get(t, p, "/fetch?url="+srv.URL("/"))
	if rec.Code != http.StatusOK {
		t.Fatalf("/fetch: got=%d body=%s", rec.Code, rec.Body.String())
	}

	var out FetchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != 20 {
		t.Fatalf("status: got=%d want=20", out.Status)
	}
	if out.Hops != 0 {
		t.Fatalf("hops: got=%d want=0", out.Hops)
	}
	if !strings.Contains(out.Body, "# Welcome") {
		t.Fatalf("body missing content: %q", out.Body)
	}
	if len(out.Links) != 1 {
		t.Fatalf("links: got=%d want=1", len(out.Links))
	}
	wantLink := srv.URL("/sub")
	if out.Links[0].URL != wantLink || out.Links[0].Label != "Go deeper" {
		t.Fatalf("link: got=%+v want url=%q", out.Links[0], wantLink)
	}
}

func TestFetchNonTextOmitsBody(t *testing.T) {
	srv := gemtest.Static(t, append([]byte("20 image/png\r\n"), 0x89, 0x50, 0x4e, 0x47))
	p := newTestPortal(t, false)

	rec := get(t, p, "/fetch?url="+srv.URL("/logo.png"))
	if rec.Code != http.StatusOK {
		t.Fatalf("/fetch: got=%d", rec.Code)
	}

	var out FetchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Body != "" {
		t.Fatalf("binary body leaked into JSON: %q", out.Body)
	}
	if out.BodySize != 4 {
		t.Fatalf("body_size: got=%d want=4", out.BodySize)
	}
}

func TestFetchRequiresURL(t *testing.T) {
	p := newTestPortal(t, false)

	if rec := get(t, p, "/fetch"); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing url: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestFetchRejectsNonGeminiURL(t *testing.T) {
	p := newTestPortal(t, false)

	rec := get(t, p, "/fetch?url=http://example.org/")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("http url: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestFetchUpstreamFailureIsBadGateway(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	p := newTestPortal(t, false)
	rec := get(t, p, "/fetch?url=gemini://"+addr+"/")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("dead upstream: got=%d want=%d", rec.Code, http.StatusBadGateway)
	}
}

func TestFetchRecordsVisit(t *testing.T) {
	srv := gemtest.Static(t, []byte("20 text/gemini\r\nhello\n"))
	p := newTestPortal(t, true)

	if rec := get(t, p, "/fetch?url="+srv.URL("/page")); rec.Code != http.StatusOK {
		t.Fatalf("/fetch: got=%d", rec.Code)
	}

	rec := get(t, p, "/visits")
	if rec.Code != http.StatusOK {
		t.Fatalf("/visits: got=%d", rec.Code)
	}

	var out struct {
		Visits []visitView `json:"visits"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Visits) != 1 {
		t.Fatalf("visit count: got=%d want=1", len(out.Visits))
	}
	v := out.Visits[0]
	if v.URL != srv.URL("/page") || v.Status != 20 {
		t.Fatalf("visit: got=%+v", v)
	}

	byID := get(t, p, "/visits/"+v.ID)
	if byID.Code != http.StatusOK {
		t.Fatalf("/visits/%s: got=%d", v.ID, byID.Code)
	}
}

func TestVisitLookupUnknownID(t *testing.T) {
	p := newTestPortal(t, true)

	if rec := get(t, p, "/visits/no-such-id"); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown visit: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}

func TestVisitEndpointsDisabledWithoutStore(t *testing.T) {
	p := newTestPortal(t, false)

	if rec := get(t, p, "/visits"); rec.Code != http.StatusNotFound {
		t.Fatalf("/visits without store: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}

func TestPurgeForbiddenByDefault(t *testing.T) {
	p := newTestPortal(t, true)

	if rec := post(t, p, "/history/purge"); rec.Code != http.StatusForbidden {
		t.Fatalf("purge without allow_purge: got=%d want=%d", rec.Code, http.StatusForbidden)
	}
}

func TestPurgeClearsVisits(t *testing.T) {
	srv := gemtest.Static(t, []byte("20 text/gemini\r\nhello\n"))
	cfg := config.PortalConfig{Name: "portal-test", Addr: ":0", AllowPurge: true}
	p := newConfiguredPortal(t, cfg, true)

	if rec := get(t, p, "/fetch?url="+srv.URL("/")); rec.Code != http.StatusOK {
		t.Fatalf("/fetch: got=%d", rec.Code)
	}

	rec := post(t, p, "/history/purge")
	if rec.Code != http.StatusOK {
		t.Fatalf("purge: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		Purged int64 `json:"purged"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Purged != 1 {
		t.Fatalf("purged: got=%d want=1", out.Purged)
	}

	var after struct {
		Visits []visitView `json:"visits"`
	}
	visitsRec := get(t, p, "/visits")
	if err := json.Unmarshal(visitsRec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode visits: %v", err)
	}
	if len(after.Visits) != 0 {
		t.Fatalf("visits after purge: got=%d want=0", len(after.Visits))
	}
}

func TestPurgeWithoutStore(t *testing.T) {
	cfg := config.PortalConfig{Name: "portal-test", Addr: ":0", AllowPurge: true}
	p := newConfiguredPortal(t, cfg, false)

	if rec := post(t, p, "/history/purge"); rec.Code != http.StatusNotFound {
		t.Fatalf("purge without store: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}

func TestPurgeRequiresToken(t *testing.T) {
	cfg := config.PortalConfig{
		Name:       "portal-test",
		Addr:       ":0",
		AllowPurge: true,
		PurgeToken: "s3cret",
	}
	p := newConfiguredPortal(t, cfg, true)

	if rec := post(t, p, "/history/purge"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("purge without token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest(http.MethodPost, "/history/purge", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	p.HTTPRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("purge with wrong token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodPost, "/history/purge", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	p.HTTPRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("purge with token: got=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUpstreamStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid url", urlutil.ErrInvalidURL, http.StatusBadRequest},
		{"timeout", gemini.ErrTimeout, http.StatusGatewayTimeout},
		{"wrapped timeout", fmt.Errorf("%w: dial", gemini.ErrTimeout), http.StatusGatewayTimeout},
		{"connection failed", gemini.ErrConnectionFailed, http.StatusBadGateway},
		{"tls failure", gemini.ErrTLS, http.StatusBadGateway},
		{"invalid response", gemini.ErrInvalidResponse, http.StatusBadGateway},
		{"body too large", gemini.ErrBodyTooLarge, http.StatusBadGateway},
		{"too many redirects", gemini.ErrTooManyRedirects, http.StatusBadGateway},
		{"redirect loop", gemini.ErrRedirectLoop, http.StatusBadGateway},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := upstreamStatus(tc.err); got != tc.want {
				t.Fatalf("upstreamStatus: got=%d want=%d", got, tc.want)
			}
		})
	}
}
