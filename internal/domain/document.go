package domain

import "fmt"

// MaxDocumentSize is the largest file either adapter accepts for upload.
const MaxDocumentSize = 10 << 20

// DocumentTooLarge is returned for uploads over MaxDocumentSize.
func DocumentTooLarge() *ValidationError {
	verr := &ValidationError{Message: "Invalid document"}
	verr.Add("file", fmt.Sprintf("must not exceed %d MB", MaxDocumentSize>>20))
	return verr
}

// UploadedDocument is the result of a file upload.
type UploadedDocument struct {
	UploadURL  string `json:"upload_url"`
	DocumentID string `json:"doc_id"`
}

// DocumentCategory classifies files attached to a case.
type DocumentCategory string

const (
	DocumentEvidence       DocumentCategory = "evidence"
	DocumentCorrespondence DocumentCategory = "correspondence"
	DocumentInvoice        DocumentCategory = "invoice"
	DocumentOther          DocumentCategory = "other"
)
