package integration

import (
	"fmt"
	"net/http"
	"testing"

	"igen/internal/models"
	"igen/internal/testutil"
)

func TestAuthFlow_LoginProfileRefresh(t *testing.T) {
	app := setupApp(t)
	company := testutil.CreateTestCompany(t, app.DB)
	testutil.CreateTestUserWithID(t, app.DB, "accountant1", models.RoleAccountant, company)

	access, refresh := app.loginUser(t, "accountant1", testutil.TestPassword)

	rec := app.request(http.MethodGet, "/api/v1/profile", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["user_id"] != "accountant1" || user["role"] != "ACCOUNTANT" {
		t.Errorf("unexpected profile %v", user)
	}
	if ids := user["company_ids"].([]interface{}); len(ids) != 1 || ids[0] != company.ID {
		t.Errorf("expected company %s, got %v", company.ID, ids)
	}

	rec = app.request(http.MethodPost, "/api/v1/auth/refresh", fmt.Sprintf(`{"refresh":%q}`, refresh), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
	}
	newAccess := parseJSON(t, rec)["access"].(string)

	rec = app.request(http.MethodGet, "/api/v1/profile", "", newAccess)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with refreshed token, got %d", rec.Code)
	}
}

func TestAuthFlow_LoginFailures(t *testing.T) {
	app := setupApp(t)
	testutil.CreateTestUserWithID(t, app.DB, "pm1", models.RolePropertyManager)

	rec := app.request(http.MethodPost, "/api/v1/auth/login", `{"user_id":"pm1","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if parseJSON(t, rec)["code"] != "INVALID_CREDENTIALS" {
		t.Error("expected INVALID_CREDENTIALS")
	}

	rec = app.request(http.MethodPost, "/api/v1/auth/login", `{"user_id":"nobody","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
	}
}

func TestAuthFlow_ProtectedRoutes(t *testing.T) {
	app := setupApp(t)
	testutil.CreateTestUserWithID(t, app.DB, "accountant1", models.RoleAccountant)
	access, refresh := app.loginUser(t, "accountant1", testutil.TestPassword)

	t.Run("missing token", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/v1/profile", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/v1/profile", "", refresh)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("super user routes reject other roles", func(t *testing.T) {
		body := `{"user_id":"pm9","password":"longenough","role":"PROPERTY_MANAGER"}`
		rec := app.request(http.MethodPost, "/api/v1/users", body, access)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if parseJSON(t, rec)["code"] != "FORBIDDEN" {
			t.Error("expected FORBIDDEN")
		}
	})

	t.Run("health is public", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/health", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
