package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	engine := newTestRouter(t)

	recorder, response := doJSON(t, engine, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, true, response["ok"])
}

func TestDebugStoreProbe(t *testing.T) {
	engine := newTestRouter(t)

	createDevice(t, engine, "Kiosk-1", 5)
	createDevice(t, engine, "Kiosk-2", 5)

	recorder, response := doJSON(t, engine, http.MethodGet, "/debug/db", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, true, response["ok"])
	assert.EqualValues(t, 2, response["devicesCount"])
	assert.NotEmpty(t, response["debugId"])
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	store, ok := response["store"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "photobooth_test", store["database"])
	assert.Equal(t, false, store["hasURI"])
}
