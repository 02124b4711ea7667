// Package pdf handles the PDF/A-3 side of the codec: embedding invoice XML
// as a file attachment and pulling embedded XML back out of incoming PDFs.
package pdf

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/fakturio/einvoice/internal/model"
)

// Renderer produces the visual PDF that serves as the attachment carrier.
// Rendering itself (layout, fonts, branding) is outside the codec.
type Renderer interface {
	Render(ctx context.Context, inv *model.Invoice, company *model.CompanyData) ([]byte, error)
}

// Metadata is written into the container's document information.
type Metadata struct {
	Title    string
	Author   string
	Created  time.Time
	Modified time.Time
}

// EmbedXML attaches the invoice XML to the carrier PDF under the given
// filename and stamps the document metadata.
func EmbedXML(carrier, xmlData []byte, filename string, meta Metadata) ([]byte, error) {
	dir, err := os.MkdirTemp("", "einvoice-embed-")
	if err != nil {
		return nil, model.NewExtractionError("pdf-embed", "failed to create temp dir", err)
	}
	defer os.RemoveAll(dir)

	// pdfcpu attaches by file path; the basename becomes the attachment name
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, xmlData, 0o600); err != nil {
		return nil, model.NewExtractionError("pdf-embed", "failed to stage attachment", err)
	}

	var attached bytes.Buffer
	if err := api.AddAttachments(bytes.NewReader(carrier), &attached, []string{path}, false, nil); err != nil {
		return nil, model.NewExtractionError("pdf-embed", "failed to attach invoice XML", err)
	}

	properties := map[string]string{
		"Title":  meta.Title,
		"Author": meta.Author,
	}
	if !meta.Created.IsZero() {
		properties["CreationDate"] = meta.Created.UTC().Format(time.RFC3339)
	}
	if !meta.Modified.IsZero() {
		properties["ModDate"] = meta.Modified.UTC().Format(time.RFC3339)
	}

	var stamped bytes.Buffer
	if err := api.AddProperties(bytes.NewReader(attached.Bytes()), &stamped, properties, nil); err != nil {
		// Metadata is best effort; the attachment is what matters
		return attached.Bytes(), nil
	}
	return stamped.Bytes(), nil
}
