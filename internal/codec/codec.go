// Package codec ties the dialect encoders and decoders together: format
// detection over root element names and a decoder registry.
package codec

import (
	"github.com/beevik/etree"

	"github.com/fakturio/einvoice/internal/codec/cii"
	"github.com/fakturio/einvoice/internal/codec/ubl"
	"github.com/fakturio/einvoice/internal/codec/xmltree"
	"github.com/fakturio/einvoice/internal/model"
)

// Decoder parses one XML dialect into the canonical structure
type Decoder interface {
	// CanDecode returns true if the decoder handles this document root
	CanDecode(root *etree.Element) bool

	// Decode parses the document tree into an ExtractedInvoice
	Decode(root *etree.Element) *model.ExtractedInvoice

	// Format returns the dialect tag
	Format() model.Format
}

// DetectFormat identifies the dialect from raw XML bytes. Malformed input
// and foreign root elements yield FormatUnknown, never an error.
func DetectFormat(data []byte) model.Format {
	return detectRoot(xmltree.Parse(data))
}

// detectRoot dispatches on the root element name, tolerating namespace
// prefixes: CrossIndustryInvoice is CII-specific, Invoice is the UBL root.
func detectRoot(root *etree.Element) model.Format {
	if root == nil {
		return model.FormatUnknown
	}
	switch root.Tag {
	case "CrossIndustryInvoice":
		return model.FormatZugferd
	case "Invoice":
		return model.FormatXRechnung
	default:
		return model.FormatUnknown
	}
}

// Registry holds all registered decoders
type Registry struct {
	decoders []Decoder
}

// NewRegistry creates a registry with both dialect decoders
func NewRegistry() *Registry {
	return &Registry{
		decoders: []Decoder{
			cii.NewDecoder(),
			ubl.NewDecoder(),
		},
	}
}

// RegisterDecoder adds a custom decoder to the registry.
// Custom decoders take priority over the built-in ones.
func (r *Registry) RegisterDecoder(d Decoder) {
	r.decoders = append([]Decoder{d}, r.decoders...)
}

// Decode parses XML content with the matching decoder. Unknown or
// malformed content resolves to an ExtractedInvoice tagged FormatUnknown
// rather than an error: incoming documents are untrusted and variable.
func (r *Registry) Decode(content []byte) *model.ExtractedInvoice {
	root := xmltree.Parse(content)
	if root != nil {
		for _, d := range r.decoders {
			if d.CanDecode(root) {
				return d.Decode(root)
			}
		}
	}
	return &model.ExtractedInvoice{Format: model.FormatUnknown}
}

// GetDecoder returns the decoder for a specific format
func (r *Registry) GetDecoder(format model.Format) Decoder {
	for _, d := range r.decoders {
		if d.Format() == format {
			return d
		}
	}
	return nil
}
