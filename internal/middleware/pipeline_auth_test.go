package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

const pipelineKey = "statement-pipeline-key"

func setupPipelineRouter(apiKey string) *gin.Engine {
	r := gin.New()
	r.POST("/pipeline/bank-uploads/upload", PipelineAuthMiddleware(apiKey), func(c *gin.Context) {
		_, hasUser := c.Get(ContextUserID)
		c.JSON(http.StatusCreated, gin.H{"accepted": true, "has_user": hasUser})
	})
	return r
}

func init() {
	gin.SetMode(gin.TestMode)
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func pipelineUpload(t *testing.T, r *gin.Engine, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/pipeline/bank-uploads/upload", http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec, parseBody(t, rec)
}

func TestPipelineAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		headers    map[string]string
		wantStatus int
		wantCode   string
	}{
		{"shared key", pipelineKey, map[string]string{APIKeyHeader: pipelineKey}, http.StatusCreated, ""},
		{"surrounding whitespace", pipelineKey, map[string]string{APIKeyHeader: " " + pipelineKey + " "}, http.StatusCreated, ""},
		{"lowercase header name", pipelineKey, map[string]string{"x-api-key": pipelineKey}, http.StatusCreated, ""},
		{"wrong key", pipelineKey, map[string]string{APIKeyHeader: "other"}, http.StatusUnauthorized, "INVALID_API_KEY"},
		{"key prefix", pipelineKey, map[string]string{APIKeyHeader: "statement-pipeline"}, http.StatusUnauthorized, "INVALID_API_KEY"},
		{"no key", pipelineKey, nil, http.StatusUnauthorized, "INVALID_API_KEY"},
		{"bearer token instead of key", pipelineKey, map[string]string{"Authorization": "Bearer " + pipelineKey}, http.StatusUnauthorized, "INVALID_API_KEY"},
		{"pipeline disabled", "", map[string]string{APIKeyHeader: pipelineKey}, http.StatusServiceUnavailable, "PIPELINE_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := pipelineUpload(t, setupPipelineRouter(tt.configured), tt.headers)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantCode == "" {
				if body["accepted"] != true || body["has_user"] != false {
					t.Errorf("expected the upload to run without a user, got %v", body)
				}
				return
			}
			if body["code"] != tt.wantCode {
				t.Errorf("expected code %s, got %v", tt.wantCode, body["code"])
			}
			if _, ok := body["detail"].(string); !ok {
				t.Errorf("expected a detail message, got %v", body)
			}
		})
	}
}
