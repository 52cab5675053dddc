package main

import (
	"fmt"
	"os"
	"strings"

	"webapp_validator/internal/config"
)

// resolveToken picks the bot token from flags first, then the environment.
func resolveToken() (string, error) {
	token, file := botToken, botTokenFile
	if token == "" && file == "" {
		token, file = os.Getenv("BOT_TOKEN"), os.Getenv("BOT_TOKEN_FILE")
	}
	if token = strings.TrimSpace(token); token != "" {
		return token, nil
	}
	if file != "" {
		return config.ReadTokenFile(file)
	}
	return "", config.ErrMissingBotToken
}

// parseFieldFlags turns repeated key=value flags into a field map.
func parseFieldFlags(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("field %q is not key=value", p)
		}
		fields[k] = v
	}
	return fields, nil
}
