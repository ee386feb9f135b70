package portal

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/gemnav/gemnav/internal/auth"
	"github.com/gemnav/gemnav/internal/gemini"
	"github.com/gemnav/gemnav/internal/gemtext"
	"github.com/gemnav/gemnav/internal/history"
	"github.com/gemnav/gemnav/internal/observability"
	"github.com/gemnav/gemnav/internal/urlutil"
)

// FetchResult is the JSON shape of a completed navigation. Body is
// included for text media only; links are extracted from text/gemini
// pages with their targets resolved against the final URL.
type FetchResult struct {
	URL      string      `json:"url"`
	FinalURL string      `json:"final_url"`
	Status   int         `json:"status"`
	Meta     string      `json:"meta"`
	Hops     int         `json:"hops"`
	BodySize int         `json:"body_size"`
	Body     string      `json:"body,omitempty"`
	Links    []FetchLink `json:"links,omitempty"`
}

type FetchLink struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

func (p *Portal) handleFetch(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing url parameter"})
		return
	}

	u, err := urlutil.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	res, err := p.client.Navigate(c.Request.Context(), u)
	if err != nil {
		observability.RecordGeminiFetch(0, time.Since(start), 0, 0)
		c.JSON(upstreamStatus(err), gin.H{"error": err.Error()})
		return
	}

	resp := res.Response
	observability.RecordGeminiFetch(resp.Status, time.Since(start), len(resp.Body), res.Hops)
	p.recordVisit(c, res)

	out := FetchResult{
		URL:      u.String(),
		FinalURL: res.URL.String(),
		Status:   resp.Status,
		Meta:     resp.Meta,
		Hops:     res.Hops,
		BodySize: len(resp.Body),
	}
	if resp.IsSuccess() && strings.HasPrefix(resp.MediaType(), "text/") {
		out.Body = string(resp.Body)
		if gemtext.IsMedia(resp.MediaType()) {
			out.Links = extractLinks(res, resp.Body)
		}
	}

	c.JSON(http.StatusOK, out)
}

func (p *Portal) handleVisits(c *gin.Context) {
	if p.visits == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "visit log disabled"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	visits, err := p.visits.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visits": visitList(visits)})
}

func (p *Portal) handleVisit(c *gin.Context) {
	if p.visits == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "visit log disabled"})
		return
	}

	v, err := p.visits.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, history.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, visitJSON(*v))
}

// handlePurge wipes the visit log. The route answers 403 unless the
// config explicitly enables purging, and 401 when a purge token is
// configured but the request does not carry it.
func (p *Portal) handlePurge(c *gin.Context) {
	if !p.allowPurge {
		c.JSON(http.StatusForbidden, gin.H{"error": "purge disabled"})
		return
	}
	if p.purgeAuth != nil {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if err := p.purgeAuth.Validate(token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
	}
	if p.visits == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "visit log disabled"})
		return
	}

	purged, err := p.visits.Purge(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": purged})
}

func (p *Portal) recordVisit(c *gin.Context, res *gemini.Result) {
	if p.visits == nil {
		return
	}
	v := &history.Visit{
		URL:    res.URL.String(),
		Status: res.Response.Status,
		Meta:   res.Response.Meta,
	}
	if err := p.visits.Record(c.Request.Context(), v); err != nil {
		log.Warn().Err(err).Str("url", v.URL).Msg("visit record failed")
	}
}

// upstreamStatus maps client errors onto gateway HTTP statuses.
// Timeouts become 504, every other upstream failure 502.
func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, urlutil.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, gemini.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, gemini.ErrConnectionFailed),
		errors.Is(err, gemini.ErrTLS),
		errors.Is(err, gemini.ErrInvalidResponse),
		errors.Is(err, gemini.ErrBodyTooLarge),
		errors.Is(err, gemini.ErrTooManyRedirects),
		errors.Is(err, gemini.ErrRedirectLoop):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func extractLinks(res *gemini.Result, body []byte) []FetchLink {
	doc := gemtext.Parse(string(body))
	var links []FetchLink
	for _, ln := range doc {
		if ln.Kind != gemtext.KindLink || ln.URL == "" {
			continue
		}
		target := ln.URL
		if abs, err := urlutil.Resolve(res.URL, ln.URL); err == nil {
			target = abs.String()
		}
		links = append(links, FetchLink{URL: target, Label: ln.Label})
	}
	return links
}

type visitView struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Status    int    `json:"status"`
	Meta      string `json:"meta"`
	FetchedAt string `json:"fetched_at"`
}

func visitJSON(v history.Visit) visitView {
	return visitView{
		ID:        v.ID,
		URL:       v.URL,
		Status:    v.Status,
		Meta:      v.Meta,
		FetchedAt: v.FetchedAt.Format(time.RFC3339),
	}
}

func visitList(visits []history.Visit) []visitView {
	out := make([]visitView, 0, len(visits))
	for _, v := range visits {
		out = append(out, visitJSON(v))
	}
	return out
}
