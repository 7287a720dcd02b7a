package main

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"

	"github.com/goliatone/go-splitjson/pkg/model"
	"github.com/goliatone/go-splitjson/pkg/render"
	"github.com/goliatone/go-splitjson/pkg/render/template/gotemplate"
	"github.com/goliatone/go-splitjson/pkg/renderers/vanilla"
	"github.com/goliatone/go-splitjson/pkg/store"
	"github.com/goliatone/go-splitjson/pkg/validation"
	"github.com/goliatone/go-splitjson/pkg/widget"
)

// fieldName is the widget name, and so the path root, of every page form.
const fieldName = "doc"

// versionField carries the version of the document a form was rendered from.
// It lies outside fieldName, so decoding ignores it.
const versionField = "_version"

//go:embed templates/*.tpl
var pageTemplates embed.FS

type documentServer struct {
	widget *widget.Widget
	store  store.Store
	pages  *gotemplate.Engine
}

func newDocumentServer(w *widget.Widget, st store.Store) (*documentServer, error) {
	sub, err := fs.Sub(pageTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("page templates: %w", err)
	}
	pages, err := gotemplate.New(
		gotemplate.WithFS(sub),
		gotemplate.WithGlobalData(map[string]any{"stylesheet": vanilla.StylesheetName}),
	)
	if err != nil {
		return nil, fmt.Errorf("page templates: %w", err)
	}
	return &documentServer{widget: w, store: st, pages: pages}, nil
}

func (s *documentServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))
	mux.HandleFunc("GET /documents", s.handleIndex)
	mux.HandleFunc("GET /documents/{id}", s.handleForm)
	mux.HandleFunc("POST /documents/{id}", s.handleSubmit)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDelete)
	mux.HandleFunc("GET /documents/{id}/json", s.handleJSON)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *documentServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("list documents: %v", err), http.StatusInternalServerError)
		return
	}
	s.writePage(w, http.StatusOK, "index", map[string]any{"ids": ids})
}

// handleForm renders the stored document. Unknown ids render an empty form so
// the first submission creates the document.
func (s *documentServer) handleForm(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	doc, err := s.store.Get(r.Context(), id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		http.Error(w, fmt.Sprintf("load document: %v", err), http.StatusBadGateway)
		return
	}

	form, err := s.widget.Generate(r.Context(), widget.Request{
		Name:          fieldName,
		Raw:           doc,
		RenderOptions: render.RenderOptions{Hidden: hiddenFields(doc)},
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("render form: %v", err), http.StatusInternalServerError)
		return
	}
	s.writePage(w, http.StatusOK, "page", map[string]any{"id": id, "form": string(form)})
}

// handleSubmit decodes the posted form and stores it. A form rendered from an
// older version of the document is rejected with 409. Values that no longer
// fit the kind of the stored field re-render the form with messages and are
// not saved.
func (s *documentServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, widget.MaxBodyBytes)
	form, err := widget.FormFromRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid submission: %v", err), http.StatusBadRequest)
		return
	}

	current, err := s.store.Get(r.Context(), id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		http.Error(w, fmt.Sprintf("load document: %v", err), http.StatusBadGateway)
		return
	}
	if posted, ok := form.Get(versionField); ok && posted != documentVersion(current) {
		http.Error(w, "document changed since the form was loaded", http.StatusConflict)
		return
	}

	layout := s.widget.Layout(fieldName, current)
	form = render.NormalizeSubmission(form, layout.Fields)
	if result := validation.ValidateSubmission(layout, form); !result.Valid {
		s.rejectSubmission(w, r, id, current, form, result)
		return
	}

	text, err := s.widget.ValueFromForm(fieldName, form)
	if err != nil {
		http.Error(w, fmt.Sprintf("decode submission: %v", err), http.StatusBadRequest)
		return
	}
	if err := s.store.Put(r.Context(), id, []byte(text)); err != nil {
		http.Error(w, fmt.Sprintf("save document: %v", err), http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, "/documents/"+id, http.StatusSeeOther)
}

func (s *documentServer) rejectSubmission(w http.ResponseWriter, r *http.Request, id string, current []byte, form model.Form, result validation.Result) {
	submitted := s.widget.Codec().Decode(fieldName, form)
	layout := s.widget.Codec().Encode(fieldName, submitted)

	opts := render.RenderOptions{Hidden: hiddenFields(current)}
	opts.ApplyErrors(s.widget.MapErrors(layout, result.Payload()))

	markup, err := s.widget.Generate(r.Context(), widget.Request{
		Name:          fieldName,
		Value:         &submitted,
		RenderOptions: opts,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("render form: %v", err), http.StatusInternalServerError)
		return
	}
	s.writePage(w, http.StatusUnprocessableEntity, "page", map[string]any{"id": id, "form": string(markup)})
}

func (s *documentServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	err := s.store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
	case err != nil:
		http.Error(w, fmt.Sprintf("delete document: %v", err), http.StatusBadGateway)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *documentServer) handleJSON(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	doc, err := s.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, fmt.Sprintf("load document: %v", err), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(doc); err != nil {
		log.Printf("write json response: %v", err)
	}
}

func (s *documentServer) writePage(w http.ResponseWriter, status int, name string, data map[string]any) {
	page, err := s.pages.RenderTemplate(name, data)
	if err != nil {
		http.Error(w, fmt.Sprintf("render page: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(page)); err != nil {
		log.Printf("write response: %v", err)
	}
}

// documentVersion identifies the stored text of a document. A missing
// document has the empty version.
func documentVersion(doc []byte) string {
	if len(doc) == 0 {
		return ""
	}
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:8])
}

func hiddenFields(doc []byte) []render.HiddenField {
	return render.SortedHiddenFields(render.MergeHiddenFields(nil, render.VersionField(versionField, documentVersion(doc))))
}

func documentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := store.NormalizeID(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return id, true
}
