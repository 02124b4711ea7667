package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fakturio/einvoice/pkg/einvoice"
)

var (
	generateFormat string
	generateOutDir string
	carrierFile    string
)

var generateCmd = &cobra.Command{
	Use:   "generate [invoice.json]",
	Short: "Generate e-invoice documents",
	Long: `Generate e-invoice documents from an invoice description.

The input file is JSON with two keys:
  invoice  - number, items, customer, dates, footer text
  company  - issuer master data including VAT status and bank account

Dialects:
  zugferd    - CII XML; with --carrier, embedded into a PDF/A-3 container
  xrechnung  - UBL XML
  both       - one attachment per dialect (default)

Examples:
  einvoice generate invoice.json
  einvoice generate invoice.json -f xrechnung
  einvoice generate invoice.json -f zugferd --carrier rendered.pdf -d out/`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "both", "Dialect to generate (zugferd, xrechnung, both)")
	generateCmd.Flags().StringVarP(&generateOutDir, "dir", "d", ".", "Output directory")
	generateCmd.Flags().StringVar(&carrierFile, "carrier", "", "Rendered carrier PDF for ZUGFeRD PDF/A-3 output")
}

// generateInput is the on-disk shape of the generate command's argument
type generateInput struct {
	Invoice *einvoice.Invoice     `json:"invoice"`
	Company *einvoice.CompanyData `json:"company"`
}

// fileRenderer serves a pre-rendered PDF from disk as the visual carrier
type fileRenderer struct {
	path string
}

func (r fileRenderer) Render(ctx context.Context, inv *einvoice.Invoice, company *einvoice.CompanyData) ([]byte, error) {
	return os.ReadFile(r.path)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var input generateInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("invalid invoice description: %w", err)
	}
	if input.Invoice == nil || input.Company == nil {
		return fmt.Errorf("invoice description must contain both invoice and company")
	}

	opts := einvoice.GenerateOptions{}
	switch generateFormat {
	case "zugferd":
		opts.Formats = []einvoice.Format{einvoice.FormatZugferd}
	case "xrechnung":
		opts.Formats = []einvoice.Format{einvoice.FormatXRechnung}
	case "both":
	default:
		return fmt.Errorf("unsupported dialect: %s", generateFormat)
	}
	if carrierFile != "" {
		opts.Renderer = fileRenderer{path: carrierFile}
	}

	attachments, err := einvoice.NewGenerator().Generate(cmd.Context(), input.Invoice, input.Company, opts)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	for _, attachment := range attachments {
		target := filepath.Join(generateOutDir, attachment.Filename)
		if err := os.WriteFile(target, attachment.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		printVerbose("Wrote %s (%d bytes, %s)\n", target, len(attachment.Content), attachment.MimeType)
		fmt.Println(target)
	}

	return nil
}
