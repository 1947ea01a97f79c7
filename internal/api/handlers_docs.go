package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mdquery/internal/element"
	"github.com/dgallion1/mdquery/internal/extract"
	"github.com/dgallion1/mdquery/internal/render"
	"github.com/dgallion1/mdquery/internal/section"
	"github.com/dgallion1/mdquery/internal/store"
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.orchestrator.Store().Documents(r.Context())
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}
	writeJSON(w, map[string]any{"documents": docs})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	err := s.orchestrator.Store().DeleteDocument(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"deleted": docID})
}

func (s *Server) handleDocumentElements(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	els, err := s.orchestrator.Store().Elements(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to load elements: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if els == nil {
		els = []element.Element{}
	}
	writeJSON(w, map[string]any{"doc_id": docID, "elements": els})
}

func (s *Server) handleDocumentSections(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	secs, err := s.orchestrator.Store().Sections(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to load sections: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if secs == nil {
		secs = []section.Section{}
	}
	writeJSON(w, map[string]any{"doc_id": docID, "sections": secs})
}

func (s *Server) handleDocumentSection(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	sectionID := chi.URLParam(r, "sectionID")

	sec, err := s.orchestrator.Store().Section(r.Context(), docID, sectionID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "section not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load section: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, sec)
}

// handleDocumentTOC re-derives the table of contents from the stored source:
// headings only, no content.
func (s *Server) handleDocumentTOC(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	source, err := s.orchestrator.Store().Source(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	toc, err := section.Headings([]byte(source), s.cfg.MaxLevel)
	if err != nil {
		jsonError(w, "failed to derive toc: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if toc == nil {
		toc = []section.Section{}
	}
	writeJSON(w, map[string]any{"doc_id": docID, "toc": toc})
}

func (s *Server) handleDocumentStats(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	source, err := s.orchestrator.Store().Source(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"doc_id": docID,
		"stats":  extract.CalculateStats([]byte(source)),
	})
}

// handleDocumentMarkdown reconstructs Markdown from the stored element
// records and returns it as text.
func (s *Server) handleDocumentMarkdown(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	els, err := s.orchestrator.Store().Elements(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to load elements: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(els) == 0 {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(render.Elements(els)))
}

// handleRender renders a caller-supplied element sequence to Markdown
// without touching the store.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Elements []element.Element `json:"elements"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"markdown": render.Elements(req.Elements)})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
