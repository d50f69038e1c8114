package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPISpec returns the raw YAML document describing the HTTP API.
func OpenAPISpec() []byte {
	return append([]byte(nil), openAPISpec...)
}

type apiDocument struct {
	doc    *openapi3.T
	router routers.Router
	json   []byte
}

// loadAPIDocument parses and validates the embedded document and prepares
// the router used to validate incoming API requests.
func loadAPIDocument(ctx context.Context) (*apiDocument, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("server: load openapi document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("server: openapi document does not contain any paths")
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("server: validate openapi document: %w", err)
	}
	router, err := legacyrouter.NewRouter(doc, openapi3.DisableExamplesValidation())
	if err != nil {
		return nil, fmt.Errorf("server: build openapi router: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("server: encode openapi document: %w", err)
	}
	return &apiDocument{doc: doc, router: router, json: raw}, nil
}

// LoadAPIDocument returns the validated document as JSON.
func LoadAPIDocument(ctx context.Context) ([]byte, error) {
	api, err := loadAPIDocument(ctx)
	if err != nil {
		return nil, err
	}
	return api.json, nil
}

// validateRequests rejects requests to documented operations whose
// parameters or body do not match the document. Undocumented routes are
// passed through untouched.
func (a *apiDocument) validateRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, params, err := a.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			msg := "invalid request"
			var reqErr *openapi3filter.RequestError
			if errors.As(err, &reqErr) && reqErr.Reason != "" {
				msg += ": " + reqErr.Reason
			}
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}
