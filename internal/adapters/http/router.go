package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/contractchecked/contract-checked/internal/config"
	"github.com/contractchecked/contract-checked/internal/core/ports"
)

// ServerMetrics is the slice of the metrics registry the router drives.
type ServerMetrics interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
	RecordAnalysis(mode, outcome string, duration time.Duration)
}

// Dependencies are the inbound ports served over HTTP. History and Metrics
// may be nil.
type Dependencies struct {
	Analyzer  ports.ContractAnalyzer
	Comparer  ports.ContractComparer
	Templates ports.TemplateCatalog
	Blog      ports.BlogReader
	Resources ports.ResourceFinder
	History   ports.AnalysisHistory
	Metrics   ServerMetrics
}

type Router struct {
	cfg  config.Config
	deps Dependencies
}

func NewRouter(cfg config.Config, deps Dependencies) *Router {
	return &Router{cfg: cfg, deps: deps}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)

	limited := func(h http.HandlerFunc) http.Handler {
		return rateLimitMiddleware(h, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	mux.Handle("POST /api/analyze", limited(rt.analyzeContract))
	mux.Handle("POST /api/acs-compare", limited(rt.compareContracts))

	mux.HandleFunc("GET /api/templates", rt.listTemplates)
	mux.HandleFunc("GET /api/templates/{id}", rt.downloadTemplate)
	mux.HandleFunc("GET /api/blog", rt.listBlogPosts)
	mux.HandleFunc("GET /api/blog/{slug}", rt.getBlogPost)
	mux.HandleFunc("GET /api/resources", rt.findResources)

	admin := func(h http.HandlerFunc) http.Handler {
		return adminTokenMiddleware(h, rt.cfg.AdminAPIToken)
	}
	mux.Handle("GET /api/analyses/export", admin(rt.exportAnalyses))
	mux.Handle("GET /api/analyses/{id}", admin(rt.getAnalysis))

	var handler http.Handler = mux
	if rt.deps.Metrics != nil {
		mux.Handle("GET /metrics", rt.deps.Metrics.Handler())
		handler = rt.deps.Metrics.Middleware(handler)
	}
	handler = corsMiddleware(rt.cfg.PublicSiteURL)(handler)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) observeAnalysis(mode, outcome string, start time.Time) {
	if rt.deps.Metrics == nil {
		return
	}
	rt.deps.Metrics.RecordAnalysis(mode, outcome, time.Since(start))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
