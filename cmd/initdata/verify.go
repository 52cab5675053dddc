package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"webapp_validator/internal/config"
	"webapp_validator/internal/domain"
	"webapp_validator/internal/service"
)

var errNotValid = errors.New("initData did not verify")

// verifyCmd creates a command that checks initData locally
func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <initData|->",
		Short: "Verify an initData string against the bot token",
		Long: `Verify an initData string and print the response envelope the server
would send. Pass "-" to read the payload from stdin. Exits non-zero unless
the payload is valid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := resolveToken()
			if err != nil {
				return err
			}

			initData := args[0]
			if initData == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				initData = strings.TrimSpace(string(b))
			}

			res := service.NewValidator(token).Validate(initData)
			out, err := json.MarshalIndent(domain.NewResponse(res, config.DefaultMessages()), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !res.OK() {
				return fmt.Errorf("%w: %s", errNotValid, res.Status)
			}
			return nil
		},
	}
	return cmd
}
