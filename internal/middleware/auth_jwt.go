package middleware

import (
	"errors"
	"net/http"
	"strings"

	"godent-be/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"  // int64
	CtxEmailKey    = "email"    // string
	CtxUsernameKey = "username" // string
)

// AuthJWT はアクセストークン必須のミドルウェア。
// トークンは Authorization: Bearer か token cookie のどちらでも良い。
// トークンが無いのは 403、壊れている／期限切れは 401。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken := extractToken(c)
			if rawToken == "" {
				return c.JSON(http.StatusForbidden, errorJSON("no token provided"))
			}

			claims, err := verifyAccessToken(rawToken, cfg.JWTSecret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("login session expired"))
			}

			setClaims(c, claims)
			return next(c)
		}
	}
}

// OptionalAuthJWT はトークンがあれば本人情報をセットし、
// 無い・検証できない場合はゲストのまま通す。
// 注文作成などゲスト許可のエンドポイントで使う。
func OptionalAuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken := extractToken(c)
			if rawToken == "" {
				return next(c)
			}

			claims, err := verifyAccessToken(rawToken, cfg.JWTSecret)
			if err != nil {
				return next(c)
			}

			setClaims(c, claims)
			return next(c)
		}
	}
}

type accessClaims struct {
	userID   int64
	email    string
	username string
}

// Authorizationヘッダ優先、無ければcookie
func extractToken(c echo.Context) string {
	authz := c.Request().Header.Get("Authorization")
	if authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := c.Cookie("token")
	if err != nil || cookie == nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

func verifyAccessToken(rawToken string, secret string) (accessClaims, error) {
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return accessClaims{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return accessClaims{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return accessClaims{}, errors.New("invalid sub")
	}

	email, _ := claims["email"].(string)
	username, _ := claims["username"].(string)

	return accessClaims{
		userID:   int64(sub),
		email:    email,
		username: username,
	}, nil
}

func setClaims(c echo.Context, claims accessClaims) {
	c.Set(CtxUserIDKey, claims.userID)
	c.Set(CtxEmailKey, claims.email)
	c.Set(CtxUsernameKey, claims.username)
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
