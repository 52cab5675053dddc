package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webapp_validator/internal/config"
	httpserver "webapp_validator/internal/http"
	"webapp_validator/internal/service"
)

const botToken = "5555:e2e-token"

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Parse(func(k string) string {
		if k == "BOT_TOKEN" {
			return botToken
		}
		return ""
	})
	require.NoError(t, err)

	srv := httptest.NewServer(httpserver.NewEngine(cfg))
	t.Cleanup(srv.Close)
	return srv
}

func signed(t *testing.T, userID int) string {
	t.Helper()
	return service.SignFields(map[string]string{
		"auth_date": "1700000000",
		"query_id":  "AAHdF6IQAAAAAN0XohDhrOrc",
		"user":      `{"id":` + strconv.Itoa(userID) + `,"first_name":"E2E","allows_write_to_pm":true}`,
	}, botToken)
}

func post(t *testing.T, url, initData string) (*http.Response, map[string]any) {
	t.Helper()
	body, err := json.Marshal(map[string]string{"initData": initData})
	require.NoError(t, err)

	res, err := http.Post(url+"/", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return res, out
}

func TestE2E_HTTP_Verify(t *testing.T) {
	srv := startServer(t)

	res, out := post(t, srv.URL, signed(t, 1001))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", res.Header.Get("Content-Type"))
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, float64(1001), out["user"].(map[string]any)["id"])

	res, out = post(t, srv.URL, strings.Replace(signed(t, 1001), "1001", "1002", 1))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "error", out["status"])
	assert.Nil(t, out["user"])
}

func TestE2E_HTTP_Concurrent(t *testing.T) {
	srv := startServer(t)

	payloads := make([]string, 20)
	for i := range payloads {
		payloads[i] = signed(t, i+1)
	}

	var wg sync.WaitGroup
	for i, initData := range payloads {
		wg.Add(1)
		go func(id int, initData string) {
			defer wg.Done()
			body, _ := json.Marshal(map[string]string{"initData": initData})
			res, err := http.Post(srv.URL+"/", "application/json", bytes.NewReader(body))
			if !assert.NoError(t, err) {
				return
			}
			defer res.Body.Close()

			var out struct {
				Status string `json:"status"`
				User   struct {
					ID int `json:"id"`
				} `json:"user"`
			}
			if assert.NoError(t, json.NewDecoder(res.Body).Decode(&out)) {
				assert.Equal(t, "success", out.Status)
				assert.Equal(t, id, out.User.ID)
			}
		}(i+1, initData)
	}
	wg.Wait()
}

func TestE2E_WS_Verify(t *testing.T) {
	srv := startServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	for i, want := range []string{"success", "error", "success"} {
		initData := signed(t, 2000+i)
		if want == "error" {
			initData += "&x=1"
		}
		require.NoError(t, conn.WriteJSON(map[string]string{"initData": initData}))

		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		var out map[string]any
		require.NoError(t, conn.ReadJSON(&out))
		assert.Equal(t, want, out["status"], "frame %d", i)
	}
}
