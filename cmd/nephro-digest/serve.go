// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pdiddy/nephro-digest/internal/archive"
	"github.com/pdiddy/nephro-digest/internal/report"
	"github.com/pdiddy/nephro-digest/pkg/types"
)

// serveCmd exposes the archive over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored digests over HTTP",
	Long: `Serve starts a small dashboard on the configured address. The root
page renders the latest digest as HTML; the /api routes return JSON.
Every route accepts ?window=YYYY-MM-DD..YYYY-MM-DD to select an older
digest instead of the latest one.

Routes:
  GET /                 latest digest as HTML
  GET /healthz          liveness probe
  GET /api/digests      archive listing
  GET /api/digest       digest summary and suggestions
  GET /api/summary      weekly summary only
  GET /api/trends       trend statistics only
  GET /api/articles     article roster of a digest
  GET /api/suggestions  research suggestions only`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	addr := cfg.Serve.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	gin.SetMode(gin.ReleaseMode)
	r := newRouter(store, cfg)

	fmt.Printf("Serving digests on %s\n", addr)
	return r.Run(addr)
}

// newRouter wires the dashboard routes onto a gin engine. Split out from
// runServe so handler tests can drive the routes without a listener.
func newRouter(store *archive.Store, cfg types.PipelineConfig) *gin.Engine {
	r := gin.Default()
	dash := &dashboard{store: store, cfg: cfg}

	r.GET("/", dash.home)
	r.GET("/healthz", dash.health)

	api := r.Group("/api")
	{
		api.GET("/digests", dash.listDigests)
		api.GET("/digest", dash.digest)
		api.GET("/summary", dash.summary)
		api.GET("/trends", dash.trends)
		api.GET("/articles", dash.articles)
		api.GET("/suggestions", dash.suggestions)
	}
	return r
}

// dashboard bundles the store and configuration the handlers need.
type dashboard struct {
	store *archive.Store
	cfg   types.PipelineConfig
}

func (d *dashboard) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
}

func (d *dashboard) home(c *gin.Context) {
	rec, ok := d.lookup(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteHTML(rec.Digest, d.cfg.Report, rec.CreatedAt, &buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (d *dashboard) listDigests(c *gin.Context) {
	infos, err := d.store.ListDigests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, infos)
}

func (d *dashboard) digest(c *gin.Context) {
	rec, ok := d.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec.Digest)
}

func (d *dashboard) summary(c *gin.Context) {
	rec, ok := d.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec.Summary)
}

func (d *dashboard) trends(c *gin.Context) {
	rec, ok := d.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec.Summary.Stats)
}

func (d *dashboard) articles(c *gin.Context) {
	rec, ok := d.lookup(c)
	if !ok {
		return
	}
	articles, err := d.store.Articles(c.Request.Context(), rec.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (d *dashboard) suggestions(c *gin.Context) {
	rec, ok := d.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec.Suggestions)
}

// lookup resolves the digest a request refers to: the ?window= selection
// when present, the latest digest otherwise. On failure it writes the
// error response itself and reports false.
func (d *dashboard) lookup(c *gin.Context) (*archive.DigestRecord, bool) {
	ctx := c.Request.Context()

	var (
		rec *archive.DigestRecord
		err error
	)
	if windowParam := c.Query("window"); windowParam != "" {
		w, perr := parseWindow(windowParam)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
			return nil, false
		}
		rec, err = d.store.DigestByWindow(ctx, w)
	} else {
		rec, err = d.store.LatestDigest(ctx)
	}

	if errors.Is(err, archive.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no digest stored"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return rec, true
}
