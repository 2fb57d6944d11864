package rest

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
)

type documentsAPI struct{ c *Client }

// Upload posts the file as the multipart field "file".
func (a documentsAPI) Upload(ctx context.Context, filename, contentType string, r io.Reader) (domain.Response[domain.UploadedDocument], error) {
	if !a.c.caps.Has(domain.CapDocuments) {
		return domain.Response[domain.UploadedDocument]{}, domain.NotImplemented("Upload")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+escapeQuotes(filepath.Base(filename))+`"`)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return domain.Response[domain.UploadedDocument]{}, &domain.NetworkError{Message: msgRequestConfig, Err: err}
	}
	n, err := io.Copy(part, io.LimitReader(r, domain.MaxDocumentSize+1))
	if err != nil {
		return domain.Response[domain.UploadedDocument]{}, &domain.NetworkError{Message: msgRequestConfig, Err: err}
	}
	if n > domain.MaxDocumentSize {
		return domain.Response[domain.UploadedDocument]{}, domain.DocumentTooLarge()
	}
	if err := mw.Close(); err != nil {
		return domain.Response[domain.UploadedDocument]{}, &domain.NetworkError{Message: msgRequestConfig, Err: err}
	}

	// the upload endpoint answers with the bare document, not an envelope
	var doc domain.UploadedDocument
	err = a.c.do(ctx, request{
		op: "Upload", cap: domain.CapDocuments, method: http.MethodPost, path: "/docs/upload",
		raw: buf.Bytes(), contentType: mw.FormDataContentType(),
	}, &doc)
	if err != nil {
		return domain.Response[domain.UploadedDocument]{}, err
	}
	return domain.OK(doc), nil
}

func escapeQuotes(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
