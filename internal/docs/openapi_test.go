package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDocumentListsRoutesUnderPrefix(t *testing.T) {
	doc := Document("/api/")
	paths, ok := doc["paths"].(object)
	require.True(t, ok)

	for _, p := range []string{
		"/api/categories", "/api/categories/{id}",
		"/api/products", "/api/products/{id}",
		"/api/users", "/api/users/{id}", "/api/users/register", "/api/users/login",
		"/api/orders", "/api/orders/{id}", "/api/orders/{id}/cancel",
	} {
		assert.Contains(t, paths, p)
	}
	assert.NotContains(t, paths["/api/users"], "post")
}

func TestServeJSONAndYAML(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/openapi.json", JSON("/api"))
	r.GET("/openapi.yaml", YAML("/api"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fromJSON))
	assert.Equal(t, "3.0.3", fromJSON["openapi"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(w.Body.Bytes(), &fromYAML))
	assert.Equal(t, "3.0.3", fromYAML["openapi"])
}
