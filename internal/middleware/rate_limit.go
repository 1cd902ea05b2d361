package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// レート制限の段階
const (
	// 認証・webhook（Strict）
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// 一般API（Default）
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

// visitor はキーごとのリミッタと最終アクセス時刻。
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*visitor)
	mu       sync.Mutex
)

func init() {
	go cleanupVisitors()
}

// キーに対応するリミッタを返す（無ければ作る）
func getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// 古いエントリを掃除してメモリリークを防ぐ
func cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		mu.Lock()
		for k, v := range visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(visitors, k)
			}
		}
		mu.Unlock()
	}
}

// RateLimit はIP単位のレート制限。認証より前（グローバル）に
// かかるので接続元IPをキーにする。
// /auth と webhook は strict、それ以外は general。
func RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limit, burst, tier := resolveRateTier(c)

			// 同じIPでも strict と general で別のバケツにする
			key := fmt.Sprintf("ip:%s:%s", c.RealIP(), tier)

			limiter := getVisitor(key, limit, burst)
			if !limiter.Allow() {
				return c.JSON(http.StatusTooManyRequests, errorJSON("too many requests"))
			}

			return next(c)
		}
	}
}

// パスからレート制限の段階を決める
func resolveRateTier(c echo.Context) (rate.Limit, int, string) {
	path := c.Request().URL.Path

	if strings.HasPrefix(path, "/auth") || path == "/orders/webhook" {
		return limitStrict, burstStrict, "strict"
	}

	return limitGeneral, burstGeneral, "general"
}
