package einvoice

import (
	"context"

	"github.com/fakturio/einvoice/internal/codec/cii"
	"github.com/fakturio/einvoice/internal/codec/ubl"
	"github.com/fakturio/einvoice/internal/model"
	"github.com/fakturio/einvoice/internal/pdf"
)

// Renderer produces the visual carrier PDF used for ZUGFeRD PDF/A-3
// output. Rendering is external to the codec.
type Renderer = pdf.Renderer

// GenerateOptions configures a generation run
type GenerateOptions struct {
	// Formats selects the dialects to produce. Empty means both.
	Formats []Format

	// Renderer enables PDF/A-3 output for the ZUGFeRD dialect. Without it
	// the ZUGFeRD attachment is the raw CII XML.
	Renderer Renderer
}

// Generator produces e-invoice attachments in the selected dialects
type Generator struct{}

// NewGenerator creates a generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate encodes the invoice into every requested dialect and returns one
// attachment per dialect. Any encoder failure aborts the whole run: a
// half-generated attachment set is worse than none.
func (g *Generator) Generate(ctx context.Context, inv *Invoice, company *CompanyData, opts GenerateOptions) ([]Attachment, error) {
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []Format{FormatZugferd, FormatXRechnung}
	}

	var attachments []Attachment
	for _, format := range formats {
		var attachment *Attachment
		var err error

		switch format {
		case FormatZugferd:
			var encoderOpts []cii.EncoderOption
			if opts.Renderer != nil {
				encoderOpts = append(encoderOpts, cii.WithRenderer(opts.Renderer))
			}
			attachment, err = cii.NewEncoder(encoderOpts...).Encode(ctx, inv, company)

		case FormatXRechnung:
			attachment, err = ubl.NewEncoder().Encode(ctx, inv, company)

		default:
			return nil, model.NewEncodeError(format, "format", "unsupported output format", nil)
		}

		if err != nil {
			return nil, err
		}
		attachments = append(attachments, *attachment)
	}

	return attachments, nil
}
