package http

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var openapiSpec []byte

var (
	swaggerOnce sync.Once
	swagger     *openapi3.T
	swaggerErr  error
)

// rawSpec returns the embedded OpenAPI document.
func rawSpec() ([]byte, error) {
	return openapiSpec, nil
}

// GetSwagger loads and validates the embedded OpenAPI document once.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(openapiSpec)
		if err != nil {
			swaggerErr = fmt.Errorf("error loading OpenAPI document: %w", err)
			return
		}
		if err := doc.Validate(loader.Context); err != nil {
			swaggerErr = fmt.Errorf("invalid OpenAPI document: %w", err)
			return
		}
		swagger = doc
	})
	return swagger, swaggerErr
}

// KeysRequest is the body of POST /sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// StateView is the JSON representation of a session.
type StateView struct {
	SessionID     string `json:"session_id"`
	DisplayValue  string `json:"display_value"`
	CurrentInput  string `json:"current_input"`
	Operator      string `json:"operator,omitempty"`
	PreviousValue string `json:"previous_value,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	Output        string `json:"output"`
	Phase         string `json:"phase"`
}

// SessionList is the body of GET /sessions.
type SessionList struct {
	Sessions []string `json:"sessions"`
}

// ErrorResponse is the body of every 4xx/5xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServerInterface lists one method per operation in openapi.yaml.
type ServerInterface interface {
	GetHealth(w http.ResponseWriter, r *http.Request)
	ListSessions(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request, id string)
	DeleteSession(w http.ResponseWriter, r *http.Request, id string)
	PressKeys(w http.ResponseWriter, r *http.Request, id string)
	SubscribeEvents(w http.ResponseWriter, r *http.Request, id string)
}

// HandlerFromMux registers every operation of si on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	withID := func(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			var id string
			err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(req, "id"), &id,
				runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter id: %w", err))
				return
			}
			fn(w, req, id)
		}
	}

	r.Get("/health", si.GetHealth)
	r.Get("/sessions", si.ListSessions)
	r.Get("/sessions/{id}", withID(si.GetSession))
	r.Delete("/sessions/{id}", withID(si.DeleteSession))
	r.Post("/sessions/{id}/keys", withID(si.PressKeys))
	r.Get("/sessions/{id}/events", withID(si.SubscribeEvents))
	return r
}
