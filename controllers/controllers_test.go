package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bgbghq67-sys/banga-photobooth-admin/controllers"
	"github.com/bgbghq67-sys/banga-photobooth-admin/core"
	"github.com/bgbghq67-sys/banga-photobooth-admin/internal/ledger"
	"github.com/bgbghq67-sys/banga-photobooth-admin/routers"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &core.Config{
		Environment:   "debug",
		MongoDatabase: "photobooth_test",
		StoreTimeout:  2 * time.Second,
	}
	logger := zap.NewNop().Sugar()
	deviceLedger := ledger.New(ledger.NewMemoryStore(), logger)

	engine := gin.New()
	router := routers.Router{
		HealthController:  &controllers.HealthController{Ledger: deviceLedger, Logger: logger, Config: cfg},
		DevicesController: &controllers.DevicesController{Ledger: deviceLedger, Logger: logger, Config: cfg},
		ClientController:  &controllers.ClientController{Ledger: deviceLedger, Logger: logger, Config: cfg},
	}
	router.RegisterRoutes(engine)

	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	response := map[string]interface{}{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	}

	return recorder, response
}

func createDevice(t *testing.T, engine *gin.Engine, name string, sessions int64) map[string]interface{} {
	t.Helper()

	recorder, response := doJSON(t, engine, http.MethodPost, "/devices", gin.H{
		"name":              name,
		"remainingSessions": sessions,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, true, response["ok"])

	device, ok := response["device"].(map[string]interface{})
	require.True(t, ok)
	return device
}
