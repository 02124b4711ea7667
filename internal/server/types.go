package server

import (
	"github.com/fakturio/einvoice/internal/model"
)

// GenerateRequest is the request body for the generate endpoint
type GenerateRequest struct {
	Invoice *model.Invoice     `json:"invoice"`
	Company *model.CompanyData `json:"company"`
	Formats []model.Format     `json:"formats,omitempty"`
}

// GenerateResponse is the response for the generate endpoint.
// Attachment content is base64-encoded by the JSON marshaller.
type GenerateResponse struct {
	Attachments []model.Attachment `json:"attachments"`
}

// ExtractResponse is the response for the extract endpoint
type ExtractResponse struct {
	Invoice *model.ExtractedInvoice `json:"invoice"`
}

// ClassifyRequest is the request body for the classify endpoint
type ClassifyRequest struct {
	Attachments []model.Attachment `json:"attachments"`
}

// ClassifyResponse is the response for the classify endpoint
type ClassifyResponse struct {
	Strategy model.Strategy `json:"strategy"`
}

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Format   string   `json:"format"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// InfoResponse is the response for the info endpoint
type InfoResponse struct {
	Format      string `json:"format"`
	MimeType    string `json:"mime_type"`
	Size        int    `json:"size"`
	EmbeddedXML bool   `json:"embedded_xml"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
