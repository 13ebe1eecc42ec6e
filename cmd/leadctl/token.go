package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/xavierca1/buyerleads/internal/infra/http/middleware"
)

func newTokenCmd(a *app) *cobra.Command {
	var sub, email string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for an identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Auth.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			if _, err := uuid.Parse(sub); err != nil {
				return fmt.Errorf("invalid --sub: %w", err)
			}

			token, err := middleware.IssueToken(a.cfg.Auth.JWTSecret, sub, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "Identity UUID (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email claim, used for import summaries")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
