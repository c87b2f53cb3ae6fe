package ws

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"talentlink_backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestCheckOrigin(t *testing.T) {
	var cfg config.Config
	cfg.App.BaseURL = "http://localhost:3000"
	config.AppConfig = &cfg

	newRequest := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.True(t, checkOrigin(newRequest("http://localhost:3000")))
	assert.True(t, checkOrigin(newRequest("http://localhost:3000/")))
	assert.True(t, checkOrigin(newRequest("HTTP://LOCALHOST:3000")))

	// Без Origin подключаются не браузерные клиенты
	assert.True(t, checkOrigin(newRequest("")))

	assert.False(t, checkOrigin(newRequest("http://evil.test")))
	assert.False(t, checkOrigin(newRequest("http://localhost:3000.evil.test")))
}
