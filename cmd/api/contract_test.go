package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/stretchr/testify/require"
)

// contractBaseURL matches the server declared in the API document.
const contractBaseURL = "http://localhost:5000"

// loadDocument loads and validates docs/api/openapi.yaml.
func loadDocument(t *testing.T) (*openapi3.T, routers.Router) {
	t.Helper()

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(filepath.Join("..", "..", "docs", "api", "openapi.yaml"))
	require.NoError(t, err, "load OpenAPI document")
	require.NoError(t, doc.Validate(context.Background()), "OpenAPI document is invalid")

	router, err := gorillamux.NewRouter(doc)
	require.NoError(t, err)
	return doc, router
}

type contractClient struct {
	t      *testing.T
	env    *apiEnv
	router routers.Router
}

// call serves req in process and checks the response against the document.
// Undocumented status codes fail the test.
func (c *contractClient) call(req *http.Request, token string) apiResponse {
	c.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	c.env.router.ServeHTTP(rec, req)

	route, pathParams, err := c.router.FindRoute(req)
	require.NoError(c.t, err, "no documented route for %s %s", req.Method, req.URL.Path)

	err = openapi3filter.ValidateResponse(context.Background(), &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status:  rec.Code,
		Header:  rec.Header(),
		Body:    io.NopCloser(bytes.NewReader(rec.Body.Bytes())),
		Options: &openapi3filter.Options{IncludeResponseStatus: true},
	})
	require.NoError(c.t, err, "%s %s -> %d: %s", req.Method, req.URL.Path, rec.Code, rec.Body.String())

	return apiResponse{Code: rec.Code, Body: rec.Body.Bytes()}
}

func (c *contractClient) json(method, path, token string, body any) apiResponse {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, contractBaseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return c.call(req, token)
}

func (c *contractClient) form(method, path, token string, fields map[string]string, image []byte) apiResponse {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(c.t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.jpg")
		require.NoError(c.t, err)
		_, err = fw.Write(image)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(method, contractBaseURL+path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.call(req, token)
}

func TestOpenAPIDocumentValid(t *testing.T) {
	doc, _ := loadDocument(t)

	expectedPaths := []string{
		"/healthz",
		"/readyz",
		"/api/auth/createuser",
		"/api/auth/login",
		"/api/auth/authenticate",
		"/api/lost-items/create",
		"/api/lost-items/list-lostItems",
		"/api/lost-items/list-foundItems",
		"/api/lost-items/view/{itemId}",
		"/api/lost-items/answerSecurityQuestion/{itemId}",
		"/api/lost-items/update/{itemId}",
		"/api/lost-items/delete/{itemId}",
		"/api/lost-items/markAsFound/{itemId}",
		"/api/lost-items/notifications/{itemId}",
	}
	for _, path := range expectedPaths {
		if doc.Paths.Find(path) == nil {
			t.Errorf("expected path %s not found in document", path)
		}
	}
}

func TestContract_Responses(t *testing.T) {
	_, router := loadDocument(t)
	c := &contractClient{t: t, env: newAPIEnv(t, false), router: router}

	c.json(http.MethodGet, "/healthz", "", nil)

	register := map[string]string{"username": "alice", "email": "alice@example.com", "password": "hunter22"}
	require.Equal(t, http.StatusCreated, c.json(http.MethodPost, "/api/auth/createuser", "", register).Code)
	require.Equal(t, http.StatusBadRequest, c.json(http.MethodPost, "/api/auth/createuser", "", register).Code)

	require.Equal(t, http.StatusUnauthorized, c.json(http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "alice@example.com", "password": "nope-nope"}).Code)
	resp := c.json(http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "alice@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, resp.Code)
	token := resp.JSON(t)["token"].(string)

	c.json(http.MethodPost, "/api/auth/authenticate", "", map[string]string{"token": token})

	require.Equal(t, http.StatusUnauthorized, c.form(http.MethodPost, "/api/lost-items/create", "", itemFields(), []byte("x")).Code)
	require.Equal(t, http.StatusBadRequest, c.form(http.MethodPost, "/api/lost-items/create", token, itemFields(), nil).Code)

	resp = c.form(http.MethodPost, "/api/lost-items/create", token, itemFields(), []byte("wallet"))
	require.Equal(t, http.StatusCreated, resp.Code)
	itemID := resp.JSON(t)["id"].(string)

	c.json(http.MethodGet, "/api/lost-items/list-lostItems", "", nil)
	c.json(http.MethodGet, "/api/lost-items/list-foundItems", "", nil)

	c.json(http.MethodGet, "/api/lost-items/view/"+itemID, "", nil)
	require.Equal(t, http.StatusNotFound, c.json(http.MethodGet, "/api/lost-items/view/missing", "", nil).Code)

	answer := func(a string) map[string]any {
		return map[string]any{"securityQuestion": map[string]string{"answer": a}}
	}
	require.Equal(t, http.StatusUnauthorized,
		c.json(http.MethodPost, "/api/lost-items/answerSecurityQuestion/"+itemID, "", answer("wrong")).Code)
	require.Equal(t, http.StatusOK,
		c.json(http.MethodPost, "/api/lost-items/answerSecurityQuestion/"+itemID, "", answer("northwind")).Code)

	c.json(http.MethodGet, "/api/lost-items/notifications/"+itemID, token, nil)

	resp = c.form(http.MethodPut, "/api/lost-items/update/"+itemID, token, map[string]string{"category": "bags"}, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	require.Equal(t, http.StatusOK, c.json(http.MethodPut, "/api/lost-items/markAsFound/"+itemID, token, nil).Code)
	require.Equal(t, http.StatusOK, c.json(http.MethodDelete, "/api/lost-items/delete/"+itemID, token, nil).Code)
	require.Equal(t, http.StatusNotFound, c.json(http.MethodDelete, "/api/lost-items/delete/"+itemID, token, nil).Code)
}
