package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/pkg/einvoice"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [files...]",
	Short: "Classify a receipt's attachments",
	Long: `Decide the processing route for a set of receipt attachments.

All given files are treated as one receipt. The result is "structured"
when any attachment carries machine-readable invoice XML (directly or
embedded in a PDF), otherwise "extraction".

Examples:
  einvoice classify rechnung.pdf
  einvoice classify mailbody.pdf anhang.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	var attachments []model.Attachment
	for _, file := range args {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		attachments = append(attachments, model.Attachment{
			Content:  data,
			Filename: filepath.Base(file),
			MimeType: mimeTypeForExt(filepath.Ext(file)),
		})
	}

	strategy := einvoice.ClassifyReceipt(attachments)
	fmt.Println(strategy)
	return nil
}

func mimeTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".xml":
		return "application/xml"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
