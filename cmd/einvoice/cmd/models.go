package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fakturio/einvoice/internal/money"
)

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}
			if info.IsDir() {
				err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if !info.IsDir() && isSupportedFile(path) {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
			} else {
				files = append(files, arg)
			}
		} else {
			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil {
					continue
				}
				if !info.IsDir() && isSupportedFile(match) {
					files = append(files, match)
				}
			}
		}
	}

	return files, nil
}

func isSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".pdf":
		return true
	default:
		return false
	}
}

func outputResults(results []*ExtractResult) error {
	switch outputFormat {
	case "json":
		return outputJSON(results)
	case "table":
		return outputTable(results)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputJSON(results []*ExtractResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func outputTable(results []*ExtractResult) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tFORMAT\tNUMBER\tDATE\tFROM\tNET\tTAX\tGROSS")
	fmt.Fprintln(tw, "----\t------\t------\t----\t----\t---\t---\t-----")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\t\t\n", r.File, r.Error)
			continue
		}
		if r.Invoice == nil {
			continue
		}

		date := ""
		if r.Invoice.InvoiceDate.Unix() != 0 && !r.Invoice.InvoiceDate.IsZero() {
			date = r.Invoice.InvoiceDate.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.File,
			r.Invoice.Format,
			r.Invoice.InvoiceNumber,
			date,
			r.Invoice.From,
			money.FormatCents(r.Invoice.Totals.NetCents),
			money.FormatCents(r.Invoice.Totals.TaxCents),
			money.FormatCents(r.Invoice.Totals.GrossCents),
		)
	}

	return tw.Flush()
}
