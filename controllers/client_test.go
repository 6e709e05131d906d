package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTwice(t *testing.T) {
	engine := newTestRouter(t)

	recorder, response := doJSON(t, engine, http.MethodPost, "/devices/register", gin.H{"machineId": "m2"})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, true, response["isNew"])
	assert.EqualValues(t, 0, response["remainingSessions"])
	assert.Equal(t, false, response["activated"])
	assert.NotEmpty(t, response["deviceId"])
	firstID := response["deviceId"]

	recorder, response = doJSON(t, engine, http.MethodPost, "/devices/register", gin.H{"machineId": "m2"})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, false, response["isNew"])
	assert.EqualValues(t, 0, response["remainingSessions"])
	assert.Equal(t, firstID, response["deviceId"])
}

func TestRegisterRequiresMachineID(t *testing.T) {
	engine := newTestRouter(t)

	recorder, response := doJSON(t, engine, http.MethodPost, "/devices/register", gin.H{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Machine ID is required", response["message"])
}

func TestRegisterAlive(t *testing.T) {
	engine := newTestRouter(t)

	recorder, response := doJSON(t, engine, http.MethodGet, "/devices/register", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, true, response["ok"])
	assert.Equal(t, "Register endpoint is alive", response["message"])
	assert.NotNil(t, response["timestamp"])
}

func TestRegisterClaimsProvisionedDevice(t *testing.T) {
	engine := newTestRouter(t)

	device := createDevice(t, engine, "Kiosk-1", 25)
	code := device["provisioningCode"].(string)

	recorder, response := doJSON(t, engine, http.MethodPost, "/devices/register", gin.H{
		"machineId":        "m1",
		"provisioningCode": code,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, false, response["isNew"])
	assert.Equal(t, device["id"], response["deviceId"])
	assert.Equal(t, "Kiosk-1", response["deviceName"])
	assert.EqualValues(t, 25, response["remainingSessions"])
	assert.Equal(t, true, response["activated"])
}

func TestHeartbeat(t *testing.T) {
	engine := newTestRouter(t)

	recorder, response := doJSON(t, engine, http.MethodPost, "/devices/heartbeat", gin.H{"machineId": "nobody"})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, false, response["ok"])

	_, registered := doJSON(t, engine, http.MethodPost, "/devices/register", gin.H{"machineId": "m1", "machineName": "Lobby"})

	recorder, response = doJSON(t, engine, http.MethodPost, "/devices/heartbeat", gin.H{"machineId": "m1"})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, registered["deviceId"], response["deviceId"])
	assert.Equal(t, "Lobby", response["deviceName"])
	assert.EqualValues(t, 0, response["remainingSessions"])

	recorder, response = doJSON(t, engine, http.MethodPost, "/devices/heartbeat", gin.H{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Machine ID is required", response["message"])
}

func TestDecrement(t *testing.T) {
	engine := newTestRouter(t)

	recorder, response := doJSON(t, engine, http.MethodPost, "/devices/decrement", gin.H{"machineId": "ghost"})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, false, response["ok"])

	_, registered := doJSON(t, engine, http.MethodPost, "/devices/register", gin.H{"machineId": "m1"})
	id := registered["deviceId"].(string)

	recorder, _ = doJSON(t, engine, http.MethodPost, "/devices/"+id+"/add-sessions", gin.H{"sessions": 1})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder, response = doJSON(t, engine, http.MethodPost, "/devices/decrement", gin.H{"machineId": "m1"})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, true, response["ok"])
	assert.EqualValues(t, 0, response["remainingSessions"])

	recorder, response = doJSON(t, engine, http.MethodPost, "/devices/decrement", gin.H{"machineId": "m1"})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "No sessions remaining", response["message"])
}
