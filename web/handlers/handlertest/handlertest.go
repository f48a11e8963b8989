// Package handlertest builds gin engines and requests for handler tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"itsheet.com/itsheet/security"
	"itsheet.com/itsheet/web/middlewares"
)

var Secret = []byte("handler-test-secret")

// NewEngine returns an engine whose /api group requires a token.
func NewEngine() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middlewares.RequestID())
	api := r.Group("/api")
	api.Use(middlewares.Authentication(Secret))
	return r, api
}

func Token(t *testing.T, id int32, username, team, role string) string {
	t.Helper()
	token, err := security.CreateIdentityToken(security.Identity{ID: id, UniqueName: username, Team: team, Role: role}, Secret, time.Hour)
	require.NoError(t, err)
	return token
}

// Do sends body as JSON (unless nil) with an optional bearer token.
func Do(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		var raw []byte
		if s, ok := body.(string); ok {
			raw = []byte(s)
		} else {
			var err error
			raw, err = json.Marshal(body)
			require.NoError(t, err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Decode unmarshals the recorded body into a generic map.
func Decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
