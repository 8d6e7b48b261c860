package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-clinic-booking/config"
	"go-clinic-booking/internal/domain/entity"
	"go-clinic-booking/pkg/jwt"

	"github.com/google/uuid"
)

type fakeSessions struct {
	revoked map[string]bool
	err     error
	checked []string
}

func (f *fakeSessions) AccessTokenActive(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	f.checked = append(f.checked, tokenID)
	if f.err != nil {
		return false, f.err
	}
	return !f.revoked[tokenID], nil
}

func testJWT(accessExpiry time.Duration) *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "front-desk-secret",
		Issuer:        "clinic-booking",
		AccessExpiry:  accessExpiry,
		RefreshExpiry: time.Hour,
	})
}

type seenIdentity struct {
	userID  uuid.UUID
	email   string
	roleID  int
	tokenID string
}

func identityHandler(seen *seenIdentity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.userID, _ = GetUserIDFromContext(r.Context())
		seen.email, _ = GetUserEmailFromContext(r.Context())
		seen.roleID, _ = GetRoleIDFromContext(r.Context())
		seen.tokenID, _ = GetTokenIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	svc := testJWT(15 * time.Minute)
	userID := uuid.New()

	access, accessID, err := svc.GenerateAccessToken(userID, "desk@clinic.test", entity.RoleIDReceptionist)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	refresh, _, _ := svc.GenerateRefreshToken(userID, "desk@clinic.test", entity.RoleIDReceptionist)
	revoked, revokedID, _ := svc.GenerateAccessToken(userID, "desk@clinic.test", entity.RoleIDReceptionist)
	expired, _, _ := testJWT(-time.Minute).GenerateAccessToken(userID, "desk@clinic.test", entity.RoleIDReceptionist)
	foreign, _, _ := jwt.NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Hour}).
		GenerateAccessToken(userID, "desk@clinic.test", entity.RoleIDAdmin)

	tests := []struct {
		name        string
		header      string
		sessionErr  error
		wantStatus  int
		wantChecked bool
	}{
		{"no header", "", nil, http.StatusUnauthorized, false},
		{"basic scheme", "Basic dXNlcjpwYXNz", nil, http.StatusUnauthorized, false},
		{"bearer without token", "Bearer ", nil, http.StatusUnauthorized, false},
		{"valid", "Bearer " + access, nil, http.StatusOK, true},
		{"lowercase scheme", "bearer " + access, nil, http.StatusOK, true},
		{"refresh token", "Bearer " + refresh, nil, http.StatusUnauthorized, false},
		{"expired", "Bearer " + expired, nil, http.StatusUnauthorized, false},
		{"other secret", "Bearer " + foreign, nil, http.StatusUnauthorized, false},
		{"logged out", "Bearer " + revoked, nil, http.StatusUnauthorized, true},
		{"session store down", "Bearer " + access, errors.New("redis: connection refused"), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &fakeSessions{revoked: map[string]bool{revokedID: true}, err: tt.sessionErr}
			var seen seenIdentity
			h := NewAuthMiddleware(svc, sessions).Authenticate(identityHandler(&seen))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/search?q=42", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if checked := len(sessions.checked) > 0; checked != tt.wantChecked {
				t.Errorf("session checked = %v, want %v", checked, tt.wantChecked)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if seen.userID != userID || seen.email != "desk@clinic.test" || seen.roleID != entity.RoleIDReceptionist || seen.tokenID != accessID {
				t.Errorf("context identity = %+v", seen)
			}
		})
	}
}

func TestAuthenticateThenRequireFrontDesk(t *testing.T) {
	svc := testJWT(15 * time.Minute)
	sessions := &fakeSessions{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) })
	h := NewAuthMiddleware(svc, sessions).Authenticate(RequireFrontDesk(next))

	for _, tc := range []struct {
		role int
		want int
	}{
		{entity.RoleIDReceptionist, http.StatusCreated},
		{entity.RoleIDAdmin, http.StatusCreated},
		{entity.RoleIDDoctor, http.StatusForbidden},
	} {
		token, _, err := svc.GenerateAccessToken(uuid.New(), "staff@clinic.test", tc.role)
		if err != nil {
			t.Fatalf("GenerateAccessToken: %v", err)
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Errorf("role %d: status = %d, want %d", tc.role, rec.Code, tc.want)
		}
	}
}
