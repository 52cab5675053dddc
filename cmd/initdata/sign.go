package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"webapp_validator/internal/service"
)

// signCmd creates a command that produces signed initData for local testing
func signCmd() *cobra.Command {
	var outputFormat string
	var fieldPairs []string
	var userJSON string
	var authDate int64

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign fields into an initData string",
		Long: `Sign a set of key=value fields with the bot token, producing the initData
string a mini-app host would hand to its client.

auth_date defaults to the current time unless given as a field or flag.`,
		Example: `  initdata sign --token 123:abc -f query_id=Q1 --user '{"id":42,"first_name":"Ana"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := resolveToken()
			if err != nil {
				return err
			}

			fields, err := parseFieldFlags(fieldPairs)
			if err != nil {
				return err
			}
			if userJSON != "" {
				if !json.Valid([]byte(userJSON)) {
					return fmt.Errorf("--user is not valid JSON")
				}
				fields["user"] = userJSON
			}
			if _, ok := fields["auth_date"]; !ok {
				if authDate == 0 {
					authDate = time.Now().Unix()
				}
				fields["auth_date"] = strconv.FormatInt(authDate, 10)
			}

			initData := service.SignFields(fields, token)

			if outputFormat == "json" {
				out, err := json.MarshalIndent(map[string]any{
					"initData": initData,
					"hash":     service.ExpectedSignature(fields, token),
					"fields":   fields,
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), initData)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, flagOutput, "o", "text", "Output format (text|json)")
	cmd.Flags().StringArrayVarP(&fieldPairs, "field", "f", nil, "Field to sign as key=value (repeatable)")
	cmd.Flags().StringVar(&userJSON, "user", "", "JSON object for the user field")
	cmd.Flags().Int64Var(&authDate, "auth-date", 0, "Unix time for auth_date (default: now)")

	return cmd
}
