package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/clipstash/pkg/adapters/handler"
	"github.com/wadjakorntonsri/clipstash/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/clipstash/pkg/config"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
	"github.com/wadjakorntonsri/clipstash/pkg/core/services"
)

func TestIntegration(t *testing.T) {
	db, err := sqlite.New(context.Background(), "file:e2e?mode=memory&cache=shared", 1)
	require.NoError(t, err)
	defer db.Close()

	clock := domain.RealClock{}
	repo := sqlite.NewSQLiteRepository(db, zap.NewNop(), sqlite.WithClock(clock))
	service := services.NewClipService(repo, clock, zap.NewNop())

	cfg := &config.Config{JWTSecret: "e2e-secret", FrontendURL: "/"}
	mux, err := handler.NewRouter(cfg, service, zap.NewNop())
	require.NoError(t, err)

	server := httptest.NewServer(mux)
	defer server.Close()

	client := server.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	// Create through the form
	form := url.Values{"content": {"hello from the form"}, "title": {"e2e"}}
	resp, err := client.PostForm(server.URL+"/clip", form)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	code := strings.TrimPrefix(location, "/clip/")
	require.NotEmpty(t, code)

	// View twice, counting hits
	for i := 0; i < 2; i++ {
		resp, err = client.Get(server.URL + location)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "hello from the form")
	}

	// Create through the API with a bearer token
	token := signToken(t, cfg.JWTSecret)
	payload, _ := json.Marshal(map[string]any{"content": "api clip", "password": "pw"})
	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/v1/clips", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	var created struct {
		ShortCode string `json:"shortcode"`
		Protected bool   `json:"protected"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, created.Protected)

	// Raw read needs the password
	req, _ = http.NewRequest(http.MethodGet, server.URL+"/clip/raw/"+created.ShortCode, nil)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.Header.Set(handler.PasswordHeader, "pw")
	resp, err = client.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "api clip", string(body))

	// Export
	clips, err := repo.Dump(context.Background())
	require.NoError(t, err)
	require.Len(t, clips, 2)
	for _, c := range clips {
		if c.ShortCode().String() == code {
			assert.Equal(t, uint64(2), c.Hits().IntoInner())
		}
	}
}

func signToken(t *testing.T, secret string) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   "e2e@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
