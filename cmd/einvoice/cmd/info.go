package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakturio/einvoice/internal/codec"
	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/pdf"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about e-invoice files",
	Long: `Display information about e-invoice files without full decoding.

Shows:
  - Detected dialect (zugferd, xrechnung, unknown)
  - Whether a PDF carries an embedded XML payload
  - File metadata

Examples:
  einvoice info rechnung.xml
  einvoice info *.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	for _, file := range files {
		printFileInfo(file)
		fmt.Println()
	}

	return nil
}

func printFileInfo(filePath string) {
	fmt.Printf("File: %s\n", filePath)

	info, err := os.Stat(filePath)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}

	fmt.Printf("  Size: %d bytes\n", info.Size())
	fmt.Printf("  Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Printf("  Error reading file: %v\n", err)
		return
	}

	if isPDF(data) {
		payload, ok := pdf.ExtractEmbeddedXML(data)
		fmt.Printf("  Embedded XML: %v\n", ok)
		if ok {
			fmt.Printf("  Format: %s\n", formatName(codec.DetectFormat([]byte(payload))))
		}
		return
	}

	format := codec.DetectFormat(data)
	fmt.Printf("  Format: %s\n", formatName(format))

	if format != model.FormatUnknown {
		preview := getPreview(string(data), 200)
		if preview != "" {
			fmt.Printf("  Preview: %s\n", preview)
		}
	}
}

func isPDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

func formatName(f model.Format) string {
	switch f {
	case model.FormatZugferd:
		return "ZUGFeRD (CII)"
	case model.FormatXRechnung:
		return "XRechnung (UBL)"
	default:
		return "Unknown"
	}
}

func getPreview(content string, maxLen int) string {
	// Remove XML declaration
	if idx := strings.Index(content, "?>"); idx >= 0 {
		content = content[idx+2:]
	}

	content = strings.TrimSpace(content)
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.ReplaceAll(content, "\t", " ")

	for strings.Contains(content, "  ") {
		content = strings.ReplaceAll(content, "  ", " ")
	}

	if len(content) > maxLen {
		content = content[:maxLen] + "..."
	}

	return content
}
