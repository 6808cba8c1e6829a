package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"quotationdesk/config"
	"quotationdesk/services"
)

// newExportCommand returns the export-quotation command, which renders a
// stored quotation to a PDF (or xlsx) file without starting the server.
func newExportCommand(app *pocketbase.PocketBase, cfg *config.Config) *cobra.Command {
	var out string
	var asExcel bool

	cmd := &cobra.Command{
		Use:          "export-quotation <quotation-id>",
		Short:        "Render a stored quotation to a PDF or Excel file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			quotationID := args[0]

			doc, err := services.BuildQuotationDocument(app, quotationID, services.DocumentOptions{
				CategoryOrder: cfg.CategoryOrder,
				ValidityDays:  cfg.ValidityDays,
			})
			if err != nil {
				return err
			}

			var data []byte
			ext := ".pdf"
			if asExcel {
				ext = ".xlsx"
				data, err = services.GenerateQuotationExcel(doc)
			} else {
				logo := services.LoadLogo(context.Background(), doc.Company.LogoURL, cfg.ImageTimeout)
				data, err = services.GenerateQuotationPDF(doc, services.RenderOptions{
					ItemsPerPage: cfg.ItemsPerPage,
					PageWidthPx:  cfg.PageWidthPx,
					Logo:         logo,
				})
			}
			if err != nil {
				color.Red("Failed to render %s: %v", quotationID, err)
				return err
			}

			if out == "" {
				out = services.SanitizeFilename(doc.QuotationID) + ext
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			summary := fmt.Sprintf("%d items", len(doc.Items))
			if !asExcel {
				summary += fmt.Sprintf(", %d pages", services.PageCount(len(doc.Items), cfg.ItemsPerPage))
			}
			color.Green("✓ %s written to %s (%s, %s)", doc.QuotationID, out, summary, humanize.Bytes(uint64(len(data))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <quotation-id>.pdf)")
	cmd.Flags().BoolVar(&asExcel, "xlsx", false, "export an Excel workbook instead of a PDF")

	return cmd
}
