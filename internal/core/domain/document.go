package domain

import (
	"mime"
	"path/filepath"
	"strings"
)

const (
	MimeTypePlainText = "text/plain"
	MimeTypePDF       = "application/pdf"
	MimeTypeMSWord    = "application/msword"
	MimeTypeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// MaxUploadBytes is the per-file size ceiling.
	MaxUploadBytes int64 = 10 * 1024 * 1024
	// MinTextLength is the minimum number of characters of extracted text worth analysing.
	MinTextLength = 100
)

var allowedMimeTypes = map[string]bool{
	MimeTypePlainText: true,
	MimeTypePDF:       true,
	MimeTypeMSWord:    true,
	MimeTypeDOCX:      true,
}

// UploadedDocument lives only for the duration of one request.
type UploadedDocument struct {
	Filename string
	MimeType string
	Size     int64
	Data     []byte
}

func IsAllowedMimeType(mimeType string) bool {
	return allowedMimeTypes[NormalizeMimeType(mimeType)]
}

// NormalizeMimeType drops media type parameters and lowercases the type.
func NormalizeMimeType(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(mimeType)
	}
	return mediaType
}

// ResolveMimeType returns the declared type, falling back to the file extension
// when the client sent nothing useful.
func ResolveMimeType(declared, filename string) string {
	normalized := NormalizeMimeType(declared)
	if normalized != "" && normalized != "application/octet-stream" {
		return normalized
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MimeTypePDF
	case ".txt":
		return MimeTypePlainText
	case ".doc":
		return MimeTypeMSWord
	case ".docx":
		return MimeTypeDOCX
	}
	if normalized == "" {
		return "application/octet-stream"
	}
	return normalized
}
