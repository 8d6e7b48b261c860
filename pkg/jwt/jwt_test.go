package jwt

import (
	"errors"
	"testing"
	"time"

	"go-clinic-booking/config"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "s3cret",
		Issuer:        "clinic-booking",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
}

func TestIssuedTokensRoundTrip(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	access, accessID, err := svc.GenerateAccessToken(userID, "desk@clinic.test", 3)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	refresh, refreshID, err := svc.GenerateRefreshToken(userID, "desk@clinic.test", 3)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if accessID == refreshID {
		t.Fatal("access and refresh share a token id")
	}

	claims, err := svc.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != userID || claims.RoleID != 3 || claims.TokenID != accessID {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "clinic-booking" || claims.Subject != userID.String() || claims.ID != accessID {
		t.Errorf("registered claims = %+v", claims.RegisteredClaims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 15*time.Minute {
		t.Errorf("access lifetime = %s", got)
	}

	if _, err := svc.ValidateRefreshToken(refresh); err != nil {
		t.Errorf("ValidateRefreshToken: %v", err)
	}
	if _, err := svc.ValidateRefreshToken(access); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("access as refresh: err = %v", err)
	}
	if _, err := svc.ValidateAccessToken(refresh); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("refresh as access: err = %v", err)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	expired := newTestService()
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expiredToken, _, _ := expired.GenerateAccessToken(userID, "a@clinic.test", 1)

	otherIssuer := NewJWTService(config.JWTConfig{Secret: "s3cret", Issuer: "billing", AccessExpiry: time.Hour})
	otherIssuerToken, _, _ := otherIssuer.GenerateAccessToken(userID, "a@clinic.test", 1)

	otherSecret := NewJWTService(config.JWTConfig{Secret: "nope", Issuer: "clinic-booking", AccessExpiry: time.Hour})
	otherSecretToken, _, _ := otherSecret.GenerateAccessToken(userID, "a@clinic.test", 1)

	// HS512 with the right key is still refused
	hs512, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS512, Claims{
		UserID:    userID,
		TokenType: AccessToken,
		TokenID:   "t1",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "clinic-booking",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("s3cret"))

	noExpiry, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		UserID:           userID,
		TokenType:        AccessToken,
		TokenID:          "t2",
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: "clinic-booking"},
	}).SignedString([]byte("s3cret"))

	tests := map[string]string{
		"garbage":      "not.a.jwt",
		"expired":      expiredToken,
		"other issuer": otherIssuerToken,
		"other secret": otherSecretToken,
		"hs512":        hs512,
		"no expiry":    noExpiry,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}
