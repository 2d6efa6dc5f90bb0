package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/config"
)

func newCacheEnv(t *testing.T, maxBodyBytes int) (*echo.Echo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: maxBodyBytes,
	}
	e := echo.New()
	e.Use(NewRedisCache(cfg, rdb))
	return e, mr
}

func TestRedisCache_HitReplaysStoredResponse(t *testing.T) {
	e, _ := newCacheEnv(t, 1<<20)
	hits := 0
	e.GET("/movies", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"movies": []string{"Dune"}})
	})

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/movies", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/movies", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, hits, "the handler must not run on a cache hit")
}

func TestRedisCache_OversizedBodyNotCached(t *testing.T) {
	e, mr := newCacheEnv(t, 16)
	big := strings.Repeat("x", 64)
	e.GET("/big", func(c echo.Context) error {
		return c.String(http.StatusOK, big)
	})

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/big", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, big, first.Body.String(), "the client still gets the full body")

	// Only part of an oversized body is captured, so storing it would
	// replay a truncated response on the next hit.
	assert.Empty(t, mr.Keys())

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/big", nil))
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))
	assert.Equal(t, big, second.Body.String())
}

func TestRedisCache_NonGetBypassed(t *testing.T) {
	e, mr := newCacheEnv(t, 1<<20)
	e.POST("/bookings", func(c echo.Context) error {
		return c.JSON(http.StatusCreated, echo.Map{"bookingId": 1})
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, mr.Keys())
}
