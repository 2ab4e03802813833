package drive

import "strings"

// Google Workspace MIME types.
const (
	MimeTypeFolder      = "application/vnd.google-apps.folder"
	MimeTypeDocument    = "application/vnd.google-apps.document"
	MimeTypeSpreadsheet = "application/vnd.google-apps.spreadsheet"
	MimeTypeSlides      = "application/vnd.google-apps.presentation"

	nativePrefix = "application/vnd.google-apps."
)

// Export formats for Google Workspace files.
const (
	ExportMimeCSV = "text/csv"
	ExportMimePDF = "application/pdf"
)

// IsNative reports whether a MIME type denotes a Drive-native document,
// which has no raw byte representation and must be exported.
func IsNative(mimeType string) bool {
	return strings.HasPrefix(mimeType, nativePrefix)
}

// ExportMimeType returns the export format for a Drive-native MIME type:
// spreadsheets become CSV, documents and presentations become PDF, and
// any other native type falls back to PDF.
func ExportMimeType(mimeType string) string {
	switch mimeType {
	case MimeTypeSpreadsheet:
		return ExportMimeCSV
	case MimeTypeDocument, MimeTypeSlides:
		return ExportMimePDF
	default:
		return ExportMimePDF
	}
}
