package register_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apierrors "github.com/dalemusser/storyhub/internal/app/features/errors"
	"github.com/dalemusser/storyhub/internal/app/features/register"
	"github.com/dalemusser/storyhub/internal/app/system/authutil"
	"github.com/dalemusser/storyhub/internal/app/system/indexes"
	"github.com/dalemusser/storyhub/internal/domain/models"
	"github.com/dalemusser/storyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func init() {
	authutil.BcryptCost = 4
}

func newTestHandler(t *testing.T) (*register.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	logger := zap.NewNop()
	return register.NewHandler(db, nil, apierrors.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
}

func validBody(email string) map[string]string {
	return map[string]string{
		"name":     "Ann Director",
		"email":    email,
		"phone":    "555-0100",
		"role":     "director",
		"password": "secret",
		"bio":      "<b>Award</b> winner",
	}
}

func post(t *testing.T, h *register.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, testutil.JSONRequest(t, "POST", "/api/register", body))
	return rec
}

func TestHandleRegister_Success(t *testing.T) {
	h, fx := newTestHandler(t)

	rec := post(t, h, validBody("Ann@X.com"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got map[string]any
	testutil.DecodeJSON(t, rec, &got)
	if got["email"] != "ann@x.com" {
		t.Errorf("email = %v, want lowercased", got["email"])
	}
	if got["bio"] != "Award winner" {
		t.Errorf("bio = %v, want sanitized", got["bio"])
	}
	for _, k := range []string{"password", "password_hash", "passwordHash"} {
		if _, ok := got[k]; ok {
			t.Errorf("response must not contain %s", k)
		}
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	var stored models.User
	if err := fx.DB().Collection("users").FindOne(ctx, bson.M{"email": "ann@x.com"}).Decode(&stored); err != nil {
		t.Fatalf("find stored user: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "secret" {
		t.Error("expected password to be stored hashed")
	}
	if !authutil.CheckPassword("secret", stored.PasswordHash) {
		t.Error("stored hash should verify")
	}
}

func TestHandleRegister_MissingField(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, field := range []string{"name", "email", "phone", "role", "password"} {
		body := validBody("a@x.com")
		delete(body, field)
		rec := post(t, h, body)
		testutil.ExpectError(t, rec, http.StatusBadRequest, "All fields are required")
	}
}

func TestHandleRegister_BadRole(t *testing.T) {
	h, _ := newTestHandler(t)

	body := validBody("a@x.com")
	body["role"] = "admin"
	rec := post(t, h, body)
	testutil.ExpectError(t, rec, http.StatusBadRequest, "Role must be one of: director, producer.")
}

func TestHandleRegister_PasswordByteLimit(t *testing.T) {
	h, fx := newTestHandler(t)

	tests := []struct {
		name     string
		password string
		want     int
	}{
		{"at limit", strings.Repeat("a", 72), http.StatusCreated},
		{"one byte over", strings.Repeat("a", 73), http.StatusBadRequest},
		{"multibyte over", strings.Repeat("密", 25), http.StatusBadRequest},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBody(string(rune('a'+i)) + "@x.com")
			body["password"] = tt.password
			rec := post(t, h, body)
			if tt.want == http.StatusBadRequest {
				raw := rec.Body.String()
				testutil.ExpectError(t, rec, http.StatusBadRequest, "Password must be at most 72 bytes")
				if strings.Contains(raw, "bcrypt") {
					t.Errorf("response leaks hashing detail: %s", raw)
				}
				return
			}
			if rec.Code != tt.want {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
		})
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := fx.DB().Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 1 {
		t.Errorf("stored users = %d, want 1", n)
	}
}

func TestHandleRegister_DuplicateEmailDiffersInCase(t *testing.T) {
	h, _ := newTestHandler(t)

	if rec := post(t, h, validBody("a@x.com")); rec.Code != http.StatusCreated {
		t.Fatalf("first register: status = %d", rec.Code)
	}
	rec := post(t, h, validBody("A@X.COM"))
	testutil.ExpectError(t, rec, http.StatusBadRequest, "Email already registered")
}
