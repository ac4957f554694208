package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doccollab/doccollab/pkg/docs"
	"github.com/doccollab/doccollab/pkg/token"
)

const testJwtSecret = "handle-test-signing-secret"

// newTestServer mounts the document API behind the same jwtauth
// middleware chain the server binary uses.
func newTestServer(t *testing.T) (*httptest.Server, *docs.DocumentService, *token.JwtService) {
	t.Helper()

	service := docs.NewDocumentService(docs.NewInMemoryDocumentRepository(), nil)
	jwtService := token.NewJwtService(testJwtSecret)

	tokenAuth := jwtauth.New("HS256", []byte(testJwtSecret), nil)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		r.Mount("/api/documents", Handler(NewDocumentHandler(service)))
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, service, jwtService
}

func bearerToken(t *testing.T, jwtService *token.JwtService, accountID uuid.UUID, email string) string {
	t.Helper()
	access, err := jwtService.GenerateAccessToken(accountID, email, email)
	require.NoError(t, err)
	return "Bearer " + access.Token
}

func doJSONRequest(t *testing.T, method, url, auth string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestDocumentEndpointsRequireToken(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSONRequest(t, http.MethodGet, server.URL+"/api/documents", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOwnerDocumentLifecycle(t *testing.T) {
	server, _, jwtService := newTestServer(t)
	auth := bearerToken(t, jwtService, uuid.New(), "owner@example.com")

	resp := doJSONRequest(t, http.MethodPost, server.URL+"/api/documents", auth, CreateDocumentRequest{
		Title:   "Meeting notes",
		Content: "agenda",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created DocumentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	docURL := server.URL + "/api/documents/" + created.ID

	resp = doJSONRequest(t, http.MethodGet, docURL, auth, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSONRequest(t, http.MethodPut, docURL, auth, UpdateDocumentRequest{
		Title:   "Meeting notes",
		Content: "minutes",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSONRequest(t, http.MethodDelete, docURL, auth, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSONRequest(t, http.MethodGet, docURL, auth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDocumentAccessScopedToOwner(t *testing.T) {
	server, service, jwtService := newTestServer(t)

	ownerID := uuid.New()
	ownerAuth := bearerToken(t, jwtService, ownerID, "owner@example.com")
	intruderAuth := bearerToken(t, jwtService, uuid.New(), "intruder@example.com")

	doc, err := service.Create(context.Background(), docs.CreateDocumentParams{
		Title:   "Private draft",
		Content: "original",
		OwnerID: ownerID,
	})
	require.NoError(t, err)

	docURL := server.URL + "/api/documents/" + doc.ID.String()

	resp := doJSONRequest(t, http.MethodGet, docURL, intruderAuth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSONRequest(t, http.MethodPut, docURL, intruderAuth, UpdateDocumentRequest{
		Title:   "Hijacked",
		Content: "overwritten",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSONRequest(t, http.MethodDelete, docURL, intruderAuth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The document is untouched and still readable by its owner.
	kept, err := service.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private draft", kept.Title)
	assert.Equal(t, "original", kept.Content)

	resp = doJSONRequest(t, http.MethodGet, docURL, ownerAuth, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Another account's documents never appear in a listing either.
	resp = doJSONRequest(t, http.MethodGet, server.URL+"/api/documents", intruderAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing ListDocumentsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	assert.Empty(t, listing.Documents)
}
