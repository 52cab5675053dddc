package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"webapp_validator/internal/domain"
	"webapp_validator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "42:ws-token"

var testMessages = domain.Messages{
	Valid:       "ok",
	Invalid:     "bad",
	MissingData: "missing",
	MissingHash: "no hash",
}

func newTestServer(t *testing.T, allowedOrigin string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier := service.NewVerifyService(service.NewValidator(testBotToken), testMessages, nil)
	r := gin.New()
	r.GET("/ws", HandleWS(verifier, allowedOrigin, 4096))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msgType int, payload []byte) map[string]any {
	t.Helper()
	require.NoError(t, conn.WriteMessage(msgType, payload))
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(msg, &out))
	return out
}

func TestWS_VerifiesEachFrame(t *testing.T) {
	srv := newTestServer(t, "*")
	conn := dial(t, srv, nil)

	signed := service.SignFields(map[string]string{
		"auth_date": "1700000000",
		"user":      `{"id":7,"first_name":"Reza"}`,
	}, testBotToken)

	body, err := json.Marshal(map[string]string{"initData": signed})
	require.NoError(t, err)

	out := roundTrip(t, conn, websocket.TextMessage, body)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "ok", out["message"])
	user, ok := out["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), user["id"])
	assert.Equal(t, "Reza", user["first_name"])
	assert.Nil(t, user["last_name"])
	assert.Equal(t, false, user["allows_write_to_pm"])

	tampered, err := json.Marshal(map[string]string{"initData": signed + "&x=1"})
	require.NoError(t, err)
	out = roundTrip(t, conn, websocket.TextMessage, tampered)
	assert.Equal(t, "error", out["status"])
	assert.Equal(t, "bad", out["message"])
	_, hasUser := out["user"]
	assert.False(t, hasUser)

	out = roundTrip(t, conn, websocket.TextMessage, []byte("not json"))
	assert.Equal(t, "missing", out["message"])

	out = roundTrip(t, conn, websocket.BinaryMessage, body)
	assert.Equal(t, "missing", out["message"])
}

func TestWS_OriginCheck(t *testing.T) {
	srv := newTestServer(t, "https://app.example")
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn := dial(t, srv, http.Header{"Origin": []string{"https://app.example"}})
	out := roundTrip(t, conn, websocket.TextMessage, []byte(`{"initData":""}`))
	assert.Equal(t, "missing", out["message"])
}

func TestWS_ReadLimitClosesConnection(t *testing.T) {
	srv := newTestServer(t, "*")
	conn := dial(t, srv, nil)

	big := `{"initData":"` + strings.Repeat("a", 8192) + `"}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(big)))

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
