package pdf

import (
	"bytes"
	"compress/zlib"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var (
	pdfMagic = []byte("%PDF-")
	xmlDecl  = []byte("<?xml")
)

// Inflated attachment streams are capped to keep hostile input from
// ballooning memory.
const maxInflatedBytes = 64 << 20

// ExtractEmbeddedXML returns the first embedded XML payload found in a PDF
// container. It never fails: empty buffers, non-PDF bytes, and structurally
// broken files all return ("", false).
//
// The structured path uses pdfcpu's attachment extraction over the catalog's
// EmbeddedFiles name tree. If that fails, a raw scan over the file's stream
// objects (zlib inflate, then raw bytes) catches containers that pdfcpu
// refuses to open.
func ExtractEmbeddedXML(data []byte) (string, bool) {
	if len(data) == 0 || !bytes.HasPrefix(data, pdfMagic) {
		return "", false
	}
	if payload, ok := extractAttachments(data); ok {
		return payload, true
	}
	return scanStreams(data)
}

// HasEmbeddedXML reports whether the buffer is a PDF with embedded XML.
func HasEmbeddedXML(data []byte) bool {
	_, ok := ExtractEmbeddedXML(data)
	return ok
}

func extractAttachments(data []byte) (payload string, ok bool) {
	// pdfcpu may panic on hostile input; treat that as "nothing found"
	defer func() {
		if r := recover(); r != nil {
			payload, ok = "", false
		}
	}()

	dir, err := os.MkdirTemp("", "einvoice-extract-")
	if err != nil {
		return "", false
	}
	defer os.RemoveAll(dir)

	if err := api.ExtractAttachments(bytes.NewReader(data), dir, nil, nil); err != nil {
		return "", false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if s, ok := xmlPayload(content); ok {
			return s, true
		}
	}
	return "", false
}

// scanStreams walks raw stream objects. Embedded file streams are typically
// Flate-compressed, so inflate is tried first with the raw bytes as
// fallback.
func scanStreams(data []byte) (string, bool) {
	rest := data
	for {
		idx := bytes.Index(rest, []byte("stream"))
		if idx < 0 {
			return "", false
		}
		// Skip hits inside an "endstream" keyword
		if idx >= 3 && bytes.Equal(rest[idx-3:idx], []byte("end")) {
			rest = rest[idx+len("stream"):]
			continue
		}
		body := rest[idx+len("stream"):]
		// The stream keyword is followed by CRLF or LF before the data
		body = bytes.TrimPrefix(body, []byte("\r"))
		body = bytes.TrimPrefix(body, []byte("\n"))

		end := bytes.Index(body, []byte("endstream"))
		if end < 0 {
			return "", false
		}
		raw := bytes.TrimRight(body[:end], "\r\n")

		if inflated, err := inflate(raw); err == nil {
			if s, ok := xmlPayload(inflated); ok {
				return s, true
			}
		} else if s, ok := xmlPayload(raw); ok {
			return s, true
		}

		rest = body[end+len("endstream"):]
	}
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, maxInflatedBytes))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// xmlPayload accepts only content starting with an XML declaration.
func xmlPayload(content []byte) (string, bool) {
	s := strings.TrimLeft(string(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))), " \t\r\n")
	if strings.HasPrefix(s, string(xmlDecl)) {
		return s, true
	}
	return "", false
}
