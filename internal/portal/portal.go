// Package portal owns the HTTP to Gemini gateway. It exposes the
// client engine over a small JSON API so web frontends can browse
// Gemini space without speaking TLS on port 1965 themselves.
package portal

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/gemnav/gemnav/internal/auth"
	"github.com/gemnav/gemnav/internal/config"
	"github.com/gemnav/gemnav/internal/gemini"
	"github.com/gemnav/gemnav/internal/history"
	"github.com/gemnav/gemnav/internal/observability"
)

type Portal struct {
	Name    string
	Addr    string
	Started time.Time

	client     *gemini.Client
	visits     *history.Store
	router     *gin.Engine
	allowPurge bool
	purgeAuth  auth.Validator
}

// New builds the portal around a client engine. visits may be nil to
// disable the audit log.
func New(cfg config.PortalConfig, client *gemini.Client, visits *history.Store) *Portal {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	p := &Portal{
		Name:       cfg.Name,
		Addr:       cfg.Addr,
		Started:    time.Now(),
		client:     client,
		visits:     visits,
		router:     r,
		allowPurge: cfg.AllowPurge,
	}
	if cfg.PurgeToken != "" {
		p.purgeAuth = auth.StaticToken{Token: cfg.PurgeToken}
	}
	return p
}

func (p *Portal) HTTPRouter() *gin.Engine {
	return p.router
}

func (p *Portal) RegisterRoutes() {
	p.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(p.Started).String(),
			"service": p.Name,
			"version": "0.0.1",
		})
	})

	p.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(p.Started).String(),
			"service": p.Name,
			"version": "0.0.1",
		})
	})

	p.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	p.router.GET("/fetch", p.handleFetch)
	p.router.GET("/visits", p.handleVisits)
	p.router.GET("/visits/:id", p.handleVisit)
	p.router.POST("/history/purge", p.handlePurge)
}

func (p *Portal) Serve() error {
	p.RegisterRoutes()
	return p.router.Run(p.Addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
