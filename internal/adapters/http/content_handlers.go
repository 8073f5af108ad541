package httpadapter

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

const msgTemplateNotFound = "Template not found"

type templateListing struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	DownloadURL string `json:"downloadUrl"`
}

func (rt *Router) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates := rt.deps.Templates.List(r.Context())
	out := make([]templateListing, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, templateListing{
			ID:          tpl.ID,
			Title:       tpl.Title,
			Description: tpl.Description,
			Category:    tpl.Category,
			DownloadURL: "/api/templates/" + tpl.ID,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": out})
}

func (rt *Router) downloadTemplate(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.deps.Templates.Render(r.Context(), r.PathValue("id"))
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgTemplateNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "template_render_failed",
			"request_id", requestIDFromContext(r.Context()),
			"template_id", r.PathValue("id"),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, msgTemplateFailed)
		return
	}
	writeAttachment(w, doc.ContentType, doc.Filename, doc.Data)
}

func (rt *Router) listBlogPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	posts := rt.deps.Blog.List(r.Context(), strings.TrimSpace(query.Get("category")), limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"posts":      posts,
		"categories": rt.deps.Blog.Categories(r.Context()),
	})
}

func (rt *Router) getBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := rt.deps.Blog.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		status, message, _ := mapError(err, "Failed to load post")
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (rt *Router) findResources(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resourceType := domain.ResourceType(strings.ToLower(strings.TrimSpace(query.Get("type"))))
	if resourceType == "" {
		resourceType = domain.ResourceTemplate
	}

	matches, err := rt.deps.Resources.Find(r.Context(), query["category"], resourceType)
	if err != nil {
		status, message, _ := mapError(err, "Failed to load resources")
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (rt *Router) getAnalysis(w http.ResponseWriter, r *http.Request) {
	if rt.deps.History == nil {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	analysis, err := rt.deps.History.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		status, message, _ := mapError(err, "Failed to load analysis")
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "analysis_lookup_failed",
				"request_id", requestIDFromContext(r.Context()),
				"error", err,
			)
		}
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) exportAnalyses(w http.ResponseWriter, r *http.Request) {
	if rt.deps.History == nil {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	doc, err := rt.deps.History.Export(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "analysis_export_failed",
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, msgExportFailed)
		return
	}
	writeAttachment(w, doc.ContentType, doc.Filename, doc.Data)
}
