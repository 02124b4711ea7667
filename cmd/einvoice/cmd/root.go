package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	currency     string
)

var rootCmd = &cobra.Command{
	Use:   "einvoice",
	Short: "Generate and read EN16931 e-invoices (ZUGFeRD, XRechnung)",
	Long: `einvoice is a CLI tool for electronic invoices.

Supports:
  - Generation: ZUGFeRD (CII XML, optional PDF/A-3) and XRechnung (UBL XML)
  - Extraction: decoding either dialect, including XML embedded in PDFs
  - Classification: structured e-invoice data vs. free-form receipts

Examples:
  # Generate both dialects from an invoice description
  einvoice generate invoice.json

  # Generate only the XRechnung document
  einvoice generate invoice.json -f xrechnung

  # Decode an e-invoice (XML or PDF)
  einvoice extract rechnung.pdf

  # Inspect a file without decoding it
  einvoice info rechnung.pdf`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&currency, "currency", "", "Accounting currency (env: EINVOICE_CURRENCY)")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if currency == "" {
		currency = os.Getenv("EINVOICE_CURRENCY")
	}
	if currency == "" {
		currency = "EUR"
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
