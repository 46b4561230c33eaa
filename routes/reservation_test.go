package routes

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"ferim-server/models"
	"ferim-server/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildTestApp builds a minimal iris app with the reservation and
// maintenance parties wired the way main.go wires them, including the
// x-auth-token extractor.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.Extractors = append(accessTokenVerifier.Extractors, func(ctx iris.Context) string {
		return ctx.GetHeader("x-auth-token")
	})
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	reservations := app.Party("/api/reservations", accessTokenVerifierMiddleware)
	{
		reservations.Get("/owner", utils.RoleMiddleware(models.RoleOwner), GetOwnerReservations)
		reservations.Put("/{id}", utils.RoleMiddleware(models.RoleOwner), UpdateReservationStatus)
	}

	maintenance := app.Party("/api/maintenance", accessTokenVerifierMiddleware)
	{
		maintenance.Get("/technician", utils.RoleMiddleware(models.RoleTechnician), GetTechnicianMaintenanceRequests)
	}

	app.Build()
	return app
}

func signTestToken(id uint, role models.Role) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func TestReservationRoutesRejectMissingToken(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/reservations/owner", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}

func TestReservationOwnerListingRejectsTenantRole(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/reservations/owner", nil)
	req.Header.Set("x-auth-token", signTestToken(2, models.RoleTenant))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tenant role, got %d", resp.Code)
	}
}

func TestReservationStatusUpdateRejectsNonOwnerRoles(t *testing.T) {
	app := buildTestApp()

	for _, role := range []models.Role{models.RoleTenant, models.RoleTechnician} {
		req := httptest.NewRequest(http.MethodPut, "/api/reservations/1", nil)
		req.Header.Set("x-auth-token", signTestToken(5, role))
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s role, got %d", role, resp.Code)
		}
	}
}

func TestTechnicianListingRejectsOtherRoles(t *testing.T) {
	app := buildTestApp()

	for _, role := range []models.Role{models.RoleTenant, models.RoleOwner} {
		req := httptest.NewRequest(http.MethodGet, "/api/maintenance/technician", nil)
		req.Header.Set("x-auth-token", signTestToken(5, role))
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s role, got %d", role, resp.Code)
		}
	}
}

func TestIsSerializationFailure(t *testing.T) {
	serialization := &pgconn.PgError{Code: "40001"}
	if !isSerializationFailure(serialization) {
		t.Error("expected SQLSTATE 40001 to be detected")
	}
	if !isSerializationFailure(fmt.Errorf("tx: %w", serialization)) {
		t.Error("expected a wrapped 40001 to be detected")
	}
	if isSerializationFailure(&pgconn.PgError{Code: "23505"}) {
		t.Error("expected a unique violation not to be treated as serialization failure")
	}
	if isSerializationFailure(errors.New("plain error")) {
		t.Error("expected a plain error not to be treated as serialization failure")
	}
}
