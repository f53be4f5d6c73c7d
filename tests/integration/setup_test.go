package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"igen/internal/config"
	"igen/internal/logger"
	"igen/internal/models"
	"igen/internal/server"
	"igen/internal/testutil"
)

const pipelineKey = "integration-pipeline-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	cfg := &config.Config{
		JWTSecret:      "integration-secret",
		PipelineAPIKey: pipelineKey,
		MaxUploadBytes: 1 << 20,
	}
	config.Set(cfg)

	return &testApp{DB: db, Router: server.NewRouter(db, cfg)}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// upload posts a statement as multipart form data with the given extra headers.
func (app *testApp) upload(path, bankAccountID, fileName, content string, headers map[string]string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("bank_account_id", bankAccountID)
	part, _ := w.CreateFormFile("file", fileName)
	_, _ = part.Write([]byte(content))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseJSONArray parses the response body into a slice of maps.
func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, userID, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"user_id":%q,"password":%q}`, userID, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access"].(string), result["refresh"].(string)
}

// superUser seeds a super user and returns its access token.
func (app *testApp) superUser(t *testing.T) string {
	t.Helper()
	testutil.CreateTestUserWithID(t, app.DB, "admin", models.RoleSuperUser)
	access, _ := app.loginUser(t, "admin", testutil.TestPassword)
	return access
}

// create posts body to path, expects 201 and returns the new id.
func (app *testApp) create(t *testing.T, token, path, body string) string {
	t.Helper()
	rec := app.request(http.MethodPost, path, body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST %s failed: %d %s", path, rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if user, ok := result["user"].(map[string]interface{}); ok {
		return user["id"].(string)
	}
	return result["id"].(string)
}
