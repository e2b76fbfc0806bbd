package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LovationAdmin/wedding-api/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, srv *httptest.Server, path string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	return websocket.DefaultDialer.Dial(url, nil)
}

// readUntil returns the first message of the wanted type.
func readUntil(t *testing.T, conn *websocket.Conn, messageType string) WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg WSMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Type == messageType {
			return msg
		}
	}
}

func TestWS_CountdownAndRSVPBroadcast(t *testing.T) {
	env := newTestEnv(t, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn, _, err := dialWS(t, srv, "/api/v1/ws/weddings/asha-and-ravi?guest=g1")
	require.NoError(t, err)
	defer conn.Close()

	snapshot := readUntil(t, conn, MessageCountdown)
	assert.Equal(t, "asha-and-ravi", snapshot.Slug)
	require.Len(t, snapshot.Countdowns, 2)
	assert.Equal(t, "Mehendi", snapshot.Countdowns[0].Name)
	assert.True(t, snapshot.Countdowns[0].Countdown.Valid)

	body, _ := json.Marshal(models.RSVPRequest{Status: "maybe"})
	resp, err := http.Post(srv.URL+"/api/v1/weddings/asha-and-ravi/guests/g1/invitations/"+env.invites[0].ID+"/rsvp",
		"application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	update := readUntil(t, conn, MessageRSVP)
	require.NotNil(t, update.RSVP)
	assert.Equal(t, env.invites[0].ID, update.RSVP.InvitationID)
	assert.Equal(t, models.RSVPMaybe, update.RSVP.Status)

	env.hub.BroadcastCountdowns(time.Now())
	again := readUntil(t, conn, MessageCountdown)
	assert.Len(t, again.Countdowns, 2)
}

func TestWS_RunCountdownsOnTicks(t *testing.T) {
	env := newTestEnv(t, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn, _, err := dialWS(t, srv, "/api/v1/ws/weddings/asha-and-ravi")
	require.NoError(t, err)
	defer conn.Close()
	readUntil(t, conn, MessageCountdown)

	ticks := make(chan time.Time, 1)
	done := make(chan struct{})
	go func() {
		env.hub.RunCountdowns(ticks)
		close(done)
	}()

	at := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	ticks <- at
	msg := readUntil(t, conn, MessageCountdown)
	assert.True(t, msg.Time.Equal(at))

	close(ticks)
	<-done
}

func TestWS_RejectsClosedWedding(t *testing.T) {
	env := newTestEnv(t, nil)
	env.addWedding(t, "hidden-one", models.WeddingStatusActive, models.VisibilityHidden, "")
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	_, resp, err := dialWS(t, srv, "/api/v1/ws/weddings/hidden-one")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = dialWS(t, srv, "/api/v1/ws/weddings/nobody")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
