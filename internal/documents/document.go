package documents

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const MimePDF = "application/pdf"

// Document is an in-memory upload. Raw bytes live only for the duration of
// one ingestion; nothing here is persisted.
type Document struct {
	Data      []byte
	MediaType string
	FileName  string
	SizeBytes int64
}

// New builds a Document from an upload, normalizing the declared media type.
func New(data []byte, mediaType string, fileName string) Document {
	return Document{
		Data:      data,
		MediaType: NormalizeMediaType(mediaType, fileName),
		FileName:  fileName,
		SizeBytes: int64(len(data)),
	}
}

// IsPDF reports whether the declared media type is PDF.
func (d Document) IsPDF() bool {
	return d.MediaType == MimePDF
}

// LooksLikePDF reports whether the payload actually parses as a PDF.
// A mislabeled payload would fail the upstream call anyway; sniffing here
// skips the doomed network round-trip.
func (d Document) LooksLikePDF() bool {
	if len(d.Data) == 0 {
		return false
	}
	reader := bytes.NewReader(d.Data)
	if _, err := pdf.NewReader(reader, int64(len(d.Data))); err != nil {
		return false
	}
	return true
}

// NormalizeMediaType lowercases, strips parameters, and falls back to the
// file extension when the declared type is empty or generic.
func NormalizeMediaType(mediaType string, fileName string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
	if clean != "" && clean != "application/octet-stream" {
		return clean
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".txt":
		return "text/plain"
	default:
		return clean
	}
}
