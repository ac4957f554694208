package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/doccollab/doccollab/pkg/docs"
	"github.com/doccollab/doccollab/pkg/errors"
)

// DocumentHandler exposes document CRUD over HTTP. All endpoints expect
// the jwtauth verifier middleware in front of them.
type DocumentHandler struct {
	service *docs.DocumentService
}

// NewDocumentHandler creates a new document API handler
func NewDocumentHandler(service *docs.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		service: service,
	}
}

// CreateDocument handles POST /
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, err := accountIDFromContext(r)
	if err != nil {
		renderUnauthorized(w, r, err)
		return
	}

	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body", errors.ErrCodeInvalidInput)
		return
	}

	doc, err := h.service.Create(r.Context(), docs.CreateDocumentParams{
		Title:   req.Title,
		Content: req.Content,
		OwnerID: ownerID,
	})
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toDocumentResponse(doc))
}

// ListDocuments handles GET /
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ownerID, err := accountIDFromContext(r)
	if err != nil {
		renderUnauthorized(w, r, err)
		return
	}

	documents, err := h.service.ListByOwner(r.Context(), ownerID)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	out := make([]DocumentResponse, 0, len(documents))
	for _, doc := range documents {
		out = append(out, toDocumentResponse(doc))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ListDocumentsResponse{Documents: out})
}

// GetDocument handles GET /{document_id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.ownedDocument(w, r)
	if !ok {
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toDocumentResponse(doc))
}

// UpdateDocument handles PUT /{document_id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.ownedDocument(w, r)
	if !ok {
		return
	}

	var req UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body", errors.ErrCodeInvalidInput)
		return
	}

	updated, err := h.service.Update(r.Context(), docs.UpdateDocumentParams{
		ID:      doc.ID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toDocumentResponse(updated))
}

// DeleteDocument handles DELETE /{document_id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.ownedDocument(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), doc.ID); err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Document deleted"})
}

// ownedDocument resolves the URL document and checks it belongs to the
// token subject. Another owner's document is reported as missing rather
// than forbidden, so IDs cannot be enumerated across accounts. On any
// failure the response has already been written and ok is false.
func (h *DocumentHandler) ownedDocument(w http.ResponseWriter, r *http.Request) (docs.Document, bool) {
	accountID, err := accountIDFromContext(r)
	if err != nil {
		renderUnauthorized(w, r, err)
		return docs.Document{}, false
	}

	id, err := documentIDFromURL(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid document id", errors.ErrCodeInvalidInput)
		return docs.Document{}, false
	}

	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return docs.Document{}, false
	}

	if doc.OwnerID != accountID {
		renderError(w, r, http.StatusNotFound, "document not found", errors.ErrCodeNotFound)
		return docs.Document{}, false
	}

	return doc, true
}

func documentIDFromURL(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "document_id"))
}

func accountIDFromContext(r *http.Request) (uuid.UUID, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return uuid.Nil, err
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return uuid.Nil, fmt.Errorf("subject not found in token claims")
	}
	return uuid.Parse(sub)
}

func toDocumentResponse(doc docs.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID.String(),
		Title:     doc.Title,
		Content:   doc.Content,
		OwnerID:   doc.OwnerID.String(),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func renderUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("Failed to get account from token", "err", err)
	renderError(w, r, http.StatusUnauthorized, "unauthorized", errors.ErrCodeUnauthorized)
}

func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	renderError(w, r, errors.MapErrorCodeToHTTPStatus(errors.GetCode(err)), err.Error(), errors.GetCode(err))
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string, code errors.ErrorCode) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message, Code: string(code)})
}

// Handler returns a http.Handler for the document API
func Handler(h *DocumentHandler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListDocuments)
	r.Post("/", h.CreateDocument)
	r.Get("/{document_id}", h.GetDocument)
	r.Put("/{document_id}", h.UpdateDocument)
	r.Delete("/{document_id}", h.DeleteDocument)

	return r
}
