package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/validate"
	"github.com/fakturio/einvoice/pkg/einvoice"
)

var extractValidate bool

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Decode e-invoice files",
	Long: `Decode one or more e-invoice files into the canonical structure.

Input may be raw CII or UBL XML, or a PDF with an embedded XML payload.
Unrecognized files are reported with format "unknown" instead of failing
the run.

Examples:
  einvoice extract rechnung.xml
  einvoice extract *.pdf -o table
  einvoice extract rechnung.xml --check`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractValidate, "check", false, "Run consistency checks on the decoded data")
}

// ExtractResult holds the result of decoding a single file
type ExtractResult struct {
	File     string                  `json:"file"`
	Invoice  *model.ExtractedInvoice `json:"invoice,omitempty"`
	Findings []validate.Result       `json:"findings,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	validator := validate.NewValidator()
	results := make([]*ExtractResult, 0, len(files))
	for _, file := range files {
		printVerbose("Decoding: %s\n", file)
		result := &ExtractResult{File: file}

		data, err := os.ReadFile(file)
		if err != nil {
			result.Error = fmt.Sprintf("failed to read file: %v", err)
			results = append(results, result)
			continue
		}

		result.Invoice = einvoice.Extract(data, currency)
		if extractValidate {
			result.Findings = validator.Validate(result.Invoice)
		}
		results = append(results, result)
	}

	return outputResults(results)
}
