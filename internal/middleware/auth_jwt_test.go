package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"godent-be/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret"}
}

func issueTestToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":      int64(7),
		"email":    "taro@example.com",
		"username": "taro",
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(expiresIn).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func runAuthJWT(t *testing.T, mw echo.MiddlewareFunc, setup func(req *http.Request)) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	setup(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	assert.NoError(t, err)

	return rec, c
}

func TestAuthJWT_ValidBearerToken(t *testing.T) {
	cfg := testConfig()
	token := issueTestToken(t, cfg.JWTSecret, time.Minute)

	rec, c := runAuthJWT(t, AuthJWT(cfg), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), c.Get(CtxUserIDKey))
	assert.Equal(t, "taro@example.com", c.Get(CtxEmailKey))
	assert.Equal(t, "taro", c.Get(CtxUsernameKey))
}

func TestAuthJWT_TokenFromCookie(t *testing.T) {
	cfg := testConfig()
	token := issueTestToken(t, cfg.JWTSecret, time.Minute)

	rec, c := runAuthJWT(t, AuthJWT(cfg), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), c.Get(CtxUserIDKey))
}

// トークンが無いのは 403。
func TestAuthJWT_MissingToken(t *testing.T) {
	rec, _ := runAuthJWT(t, AuthJWT(testConfig()), func(req *http.Request) {})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "no token provided")
}

// 期限切れは 401。
func TestAuthJWT_ExpiredToken(t *testing.T) {
	cfg := testConfig()
	token := issueTestToken(t, cfg.JWTSecret, -time.Minute)

	rec, _ := runAuthJWT(t, AuthJWT(cfg), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "login session expired")
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	token := issueTestToken(t, "other-secret", time.Minute)

	rec, _ := runAuthJWT(t, AuthJWT(testConfig()), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Optional はトークン無しでも素通りする。
func TestOptionalAuthJWT_NoToken(t *testing.T) {
	rec, c := runAuthJWT(t, OptionalAuthJWT(testConfig()), func(req *http.Request) {})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get(CtxUserIDKey))
}

func TestOptionalAuthJWT_ValidToken(t *testing.T) {
	cfg := testConfig()
	token := issueTestToken(t, cfg.JWTSecret, time.Minute)

	rec, c := runAuthJWT(t, OptionalAuthJWT(cfg), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), c.Get(CtxUserIDKey))
}

// 壊れたトークンでもゲストとして通す（注文作成を止めない）。
func TestOptionalAuthJWT_InvalidTokenFallsBackToGuest(t *testing.T) {
	rec, c := runAuthJWT(t, OptionalAuthJWT(testConfig()), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer not.a.token")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get(CtxUserIDKey))
}
