package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"lovemirror-backend/internal/db"
	"lovemirror-backend/utilities"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := utilities.InitLogger(cfg.Logging.Dir, cfg.Logging.Level)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		conn, err := db.Open(cfg, log)
		if err != nil {
			return err
		}
		return db.Migrate(cmd.Context(), conn, log)
	},
}

var (
	tokenEmail  string
	tokenExpiry time.Duration
)

// tokenCmd mints a bearer token with the configured secret, for local
// testing against a server with token auth on.
var tokenCmd = &cobra.Command{
	Use:   "token USER_ID",
	Short: "Issue a development bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Authentication.JWTSecret == "" {
			return errors.New("no JWT secret configured")
		}
		validator := utilities.NewTokenValidator(cfg.Authentication.JWTSecret, cfg.Authentication.Issuer)
		token, err := validator.GenerateToken(args[0], tokenEmail, tokenExpiry)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().DurationVar(&tokenExpiry, "expiry", 24*time.Hour, "token lifetime")
}
