package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"webapp_validator/internal/service"
)

// smokeCmd creates a command that exercises a running validator end to end
func smokeCmd() *cobra.Command {
	var baseURL string
	var path string
	var useWS bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Send a freshly signed payload to a running validator",
		Long: `Sign a sample payload with the bot token and send it to a running
validator, once untouched and once tampered, printing both replies. The first
must succeed and the second must be rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := resolveToken()
			if err != nil {
				return err
			}

			initData := service.SignFields(map[string]string{
				"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
				"query_id":  uuid.New().String(),
				"user":      `{"id":1234567890,"first_name":"Smoke","last_name":"Test","language_code":"en","allows_write_to_pm":true}`,
			}, token)

			send := func(payload string) (map[string]any, error) {
				if useWS {
					return sendWS(baseURL, payload, timeout)
				}
				return sendHTTP(baseURL, path, payload, timeout)
			}

			out := cmd.OutOrStdout()
			good, err := send(initData)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "signed:   %v\n", good)

			bad, err := send(initData + "&tampered=1")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "tampered: %v\n", bad)

			if good["status"] != "success" || bad["status"] != "error" {
				return fmt.Errorf("unexpected verdicts: signed=%v tampered=%v", good["status"], bad["status"])
			}
			fmt.Fprintln(out, "smoke test passed")
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://127.0.0.1:8080", "Validator base URL")
	cmd.Flags().StringVar(&path, "path", "/", "Verify path for HTTP mode")
	cmd.Flags().BoolVar(&useWS, "ws", false, "Use the /ws endpoint instead of HTTP POST")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Per-request timeout")

	return cmd
}

func sendHTTP(baseURL, path, initData string, timeout time.Duration) (map[string]any, error) {
	body, err := json.Marshal(map[string]string{"initData": initData})
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: timeout}
	res, err := client.Post(strings.TrimRight(baseURL, "/")+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response (HTTP %d): %w", res.StatusCode, err)
	}
	return out, nil
}

func sendWS(baseURL, initData string, timeout time.Duration) (map[string]any, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(timeout))
	if err := conn.WriteJSON(map[string]string{"initData": initData}); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(timeout))
	var out map[string]any
	if err := conn.ReadJSON(&out); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return out, nil
}
