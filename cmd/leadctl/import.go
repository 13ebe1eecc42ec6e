package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/xavierca1/buyerleads/internal/entity"
	"github.com/xavierca1/buyerleads/internal/infra/database"
	"github.com/xavierca1/buyerleads/internal/infra/mail"
	"github.com/xavierca1/buyerleads/internal/usecase"
)

func newImportCmd(a *app) *cobra.Command {
	var uploader, email string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Validate a CSV file and insert its valid rows",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if uploader == "" {
				uploader = uuid.New().String()
				return nil
			}
			if _, err := uuid.Parse(strings.TrimSpace(uploader)); err != nil {
				return fmt.Errorf("invalid --uploader: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			var notifier usecase.ImportNotifier
			if a.cfg.Mail.Enabled() {
				m := a.cfg.Mail
				notifier = mail.NewEmailSender(m.Host, m.Port, m.User, m.Password, m.From)
			}

			uc := usecase.NewImportBuyersUseCase(database.NewStore(db), nil, notifier, a.log, a.cfg.Import.MaxRows)
			// The process exits right after, so the summary is sent inline.
			uc.Async = func(f func()) { f() }

			report, err := uc.Execute(cmd.Context(), f, entity.Identity{ID: uploader, Email: email})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&uploader, "uploader", "", "Uploader identity UUID (random when omitted)")
	cmd.Flags().StringVar(&email, "email", "", "Send the import summary to this address")
	return cmd
}
