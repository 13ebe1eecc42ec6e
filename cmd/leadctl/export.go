package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xavierca1/buyerleads/internal/entity"
	"github.com/xavierca1/buyerleads/internal/infra/database"
	"github.com/xavierca1/buyerleads/internal/usecase"
)

type exportOptions struct {
	filter entity.BuyerFilter
	format string
	output string
}

func newExportCmd(a *app) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write matching buyer leads as CSV or XLSX",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := renderer(opts.format); err != nil {
				return err
			}
			if opts.format == "xlsx" && opts.output == "" {
				return fmt.Errorf("--format xlsx needs --output")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			buyers, err := usecase.NewExportBuyersUseCase(database.NewStore(db)).Execute(cmd.Context(), opts.filter)
			if err != nil {
				return err
			}
			return writeExport(cmd.OutOrStdout(), opts, buyers)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.filter.City, "city", "", "Only this city")
	f.StringVar(&opts.filter.PropertyType, "property-type", "", "Only this property type")
	f.StringVar(&opts.filter.Status, "status", "", "Only this status")
	f.StringVar(&opts.filter.Timeline, "timeline", "", "Only this timeline")
	f.StringVarP(&opts.filter.Query, "query", "q", "", "Search name, phone or email")
	f.StringVar(&opts.format, "format", "csv", "Output format: csv or xlsx")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func renderer(format string) (func(io.Writer, []*entity.BuyerLead) error, error) {
	switch format {
	case "csv":
		return usecase.WriteCSV, nil
	case "xlsx":
		return usecase.WriteXLSX, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func writeExport(stdout io.Writer, opts exportOptions, buyers []*entity.BuyerLead) error {
	render, err := renderer(opts.format)
	if err != nil {
		return err
	}
	if opts.output == "" {
		return render(stdout, buyers)
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	if err := render(f, buyers); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
