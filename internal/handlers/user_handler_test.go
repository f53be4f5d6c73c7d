package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "igen/internal/errors"
	"igen/internal/models"
	"igen/internal/services"
)

func setupUserRouter(handler *UserHandler) *gin.Engine {
	r := gin.New()
	admin := r.Group("/users", injectScope(models.RoleSuperUser))
	admin.POST("", handler.CreateUser)
	admin.DELETE("/:id", handler.DeleteUser)
	return r
}

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("returns 201 with the new user", func(t *testing.T) {
		var got services.CreateUserRequest
		userSvc := &mockUserService{
			createUserFn: func(req services.CreateUserRequest) (*models.User, error) {
				got = req
				return &models.User{Base: models.Base{ID: "new-id"}, UserID: req.UserID, Role: req.Role}, nil
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockAuditService{}))

		body := `{"user_id":"pm1","password":"longenough","full_name":"P M","role":"PROPERTY_MANAGER",
			"company_ids":["0190c6d8-cccc-7000-8000-000000000001"]}`
		rec := doRequest(r, http.MethodPost, "/users", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Role != models.RolePropertyManager || len(got.CompanyIDs) != 1 {
			t.Errorf("unexpected service request %+v", got)
		}
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/users", `{"user_id":"pm1","password":"longenough","role":"ADMIN"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("rejects a short password", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/users", `{"user_id":"pm1","password":"short","role":"ACCOUNTANT"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_ services.CreateUserRequest) (*models.User, error) {
				return nil, apperrors.ErrDuplicateUserID
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/users", `{"user_id":"pm1","password":"longenough","role":"ACCOUNTANT"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_USER_ID")
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	t.Run("returns 204", func(t *testing.T) {
		var deleted string
		userSvc := &mockUserService{deleteUserFn: func(id string) error { deleted = id; return nil }}
		r := setupUserRouter(NewUserHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, "/users/other-user", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if deleted != "other-user" {
			t.Errorf("expected other-user to be deleted, got %q", deleted)
		}
	})

	t.Run("refuses to delete yourself", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, "/users/"+testUserID, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
