package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/config"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/services"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/store"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceTime = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T, settings config.Settings) *fiber.App {
	t.Helper()
	now := func() time.Time { return referenceTime }
	provider := services.NewJitsiProvider(settings, services.NewIssuer(settings.AppID, now))
	manager := services.NewRoomManager(store.NewMemoryStore(), provider, settings, now)

	app := fiber.New()
	MapAPIs(app, "/api", &Handler{
		Rooms:    manager,
		Events:   services.NewEventRouter(manager),
		Settings: settings,
		Now:      now,
	})
	return app
}

func testSettings() config.Settings {
	return config.Settings{
		Provider:       config.ProviderJitsi,
		Domain:         "meet.example.com",
		AppID:          "telemed",
		TokenTTL:       10,
		AccessWindow:   15,
		RoomPrefix:     "room",
		StorageTimeout: time.Second,
		Branding:       config.Branding{Title: "Videoconsulta", Logo: "https://cdn.example.com/logo.png"},
	}
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	_ = jsoniter.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestBookingJoinAndCancel(t *testing.T) {
	app := newTestApp(t, testSettings())

	status, out := call(t, app, http.MethodPost, "/api/events/appointments/booked", `{"event_id": 42, "actor": "7"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, services.ActionCreate, out["action"])

	status, room := call(t, app, http.MethodGet, "/api/rooms/42", "")
	require.Equal(t, http.StatusOK, status)
	assert.Regexp(t, `^room-42-[0-9a-f]{8}$`, room["room_name"])
	assert.Equal(t, "7", room["created_by"])

	status, join := call(t, app, http.MethodPost, "/api/rooms/42/join", `{"user_id": "5", "role": "patient"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, room["room_name"], join["room_name"])
	assert.Equal(t, "meet.example.com", join["domain"])
	assert.NotEmpty(t, join["token"])
	assert.Equal(t, "jitsi", join["provider"])
	branding, ok := join["branding"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Videoconsulta", branding["title"])

	status, out = call(t, app, http.MethodPost, "/api/events/appointments/status", `{"event_id": "42", "status": 0}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, services.ActionEnd, out["action"])

	status, _ = call(t, app, http.MethodPost, "/api/rooms/42/join", `{"user_id": "5", "role": "patient"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMalformedEventsAreAcknowledged(t *testing.T) {
	app := newTestApp(t, testSettings())

	for _, tc := range []struct{ path, body string }{
		{"/api/events/appointments/booked", `{}`},
		{"/api/events/appointments/booked", `{"event_id": 0}`},
		{"/api/events/appointments/status", `{"status": "cancelled"}`},
		{"/api/events/appointments/status", `{"event_id": 42, "status": "checkin"}`},
		{"/api/events/appointments/cancelled", `{"event_id": ""}`},
		{"/api/events/payments/completed", `{"items": [{}, {"event_id": null}]}`},
	} {
		status, out := call(t, app, http.MethodPost, tc.path, tc.body)
		assert.Equal(t, http.StatusOK, status, tc.path+" "+tc.body)
		assert.Equal(t, services.ActionNone, out["action"], tc.path+" "+tc.body)
	}

	status, _ := call(t, app, http.MethodGet, "/api/rooms/42", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPaymentCreatesBoundRooms(t *testing.T) {
	app := newTestApp(t, testSettings())

	status, out := call(t, app, http.MethodPost, "/api/events/payments/completed",
		`{"order_id": "1001", "items": [{"event_id": 11}, {"event_id": "12"}, {}]}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, services.ActionCreate, out["action"])

	for _, id := range []string{"11", "12"} {
		status, _ := call(t, app, http.MethodGet, "/api/rooms/"+id, "")
		assert.Equal(t, http.StatusOK, status, id)
	}
}

func TestJoinNotReadyWithoutDomain(t *testing.T) {
	settings := testSettings()
	settings.Domain = ""
	app := newTestApp(t, settings)

	status, _ := call(t, app, http.MethodPost, "/api/rooms/42", "")
	require.Equal(t, http.StatusOK, status)

	status, out := call(t, app, http.MethodPost, "/api/rooms/42/join", `{"user_id": "5"}`)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Nil(t, out["token"])
}

func TestJoinValidation(t *testing.T) {
	app := newTestApp(t, testSettings())
	call(t, app, http.MethodPost, "/api/rooms/42", `{"actor": "admin"}`)

	status, _ := call(t, app, http.MethodPost, "/api/rooms/42/join", `{"role": "patient"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPost, "/api/rooms/42/join", `{"user_id": "5", "role": "admin"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPost, "/api/rooms/0/join", `{"user_id": "5"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestJoinAccessWindow(t *testing.T) {
	app := newTestApp(t, testSettings())
	call(t, app, http.MethodPost, "/api/rooms/42", "")

	early := referenceTime.Add(time.Hour).Format(time.RFC3339)
	status, _ := call(t, app, http.MethodPost, "/api/rooms/42/join", `{"user_id": "5", "starts_at": "`+early+`"}`)
	assert.Equal(t, http.StatusForbidden, status)

	soon := referenceTime.Add(10 * time.Minute).Format(time.RFC3339)
	status, _ = call(t, app, http.MethodPost, "/api/rooms/42/join", `{"user_id": "5", "starts_at": "`+soon+`"}`)
	assert.Equal(t, http.StatusOK, status)
}

func TestEndRoomEndpoint(t *testing.T) {
	app := newTestApp(t, testSettings())

	status, out := call(t, app, http.MethodDelete, "/api/rooms/42", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, out["ended"])

	call(t, app, http.MethodPost, "/api/rooms/42", "")
	status, out = call(t, app, http.MethodDelete, "/api/rooms/42", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["ended"])
}

func TestRoomsWithSameLengthIdsStayApart(t *testing.T) {
	app := newTestApp(t, testSettings())

	names := map[string]string{}
	for _, id := range []string{"42", "99", "77", "13"} {
		status, room := call(t, app, http.MethodPost, "/api/rooms/"+id, "")
		require.Equal(t, http.StatusOK, status, id)
		assert.Equal(t, id, room["event_id"], id)
		assert.Regexp(t, `^room-`+id+`-[0-9a-f]{8}$`, room["room_name"], id)
		names[id], _ = room["room_name"].(string)
	}

	for id, name := range names {
		status, room := call(t, app, http.MethodGet, "/api/rooms/"+id, "")
		require.Equal(t, http.StatusOK, status, id)
		assert.Equal(t, id, room["event_id"], id)
		assert.Equal(t, name, room["room_name"], id)
	}
}
