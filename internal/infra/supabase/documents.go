package supabase

import (
	"context"
	"io"
	"strings"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/storage"

	"go.uber.org/zap"
)

type documentsAPI struct{ c *Client }

func (a documentsAPI) Upload(ctx context.Context, filename, contentType string, r io.Reader) (domain.Response[domain.UploadedDocument], error) {
	if !a.c.caps.Has(domain.CapDocuments) {
		return domain.Response[domain.UploadedDocument]{}, domain.NotImplemented("Upload")
	}
	if a.c.session.Token() == "" {
		return domain.Response[domain.UploadedDocument]{}, domain.Unauthenticated()
	}

	data, err := io.ReadAll(io.LimitReader(r, domain.MaxDocumentSize+1))
	if err != nil {
		return domain.Response[domain.UploadedDocument]{}, &domain.NetworkError{Message: "failed to read upload", Err: err}
	}
	if len(data) > domain.MaxDocumentSize {
		return domain.Response[domain.UploadedDocument]{}, domain.DocumentTooLarge()
	}
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	key := storage.ObjectKey("documents", filename)
	link, err := a.c.storeObject(ctx, key, contentType, data)
	if err != nil {
		return domain.Response[domain.UploadedDocument]{}, err
	}
	a.c.t.logger.Debug("supabase: document stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return domain.OK(domain.UploadedDocument{UploadURL: link, DocumentID: key}), nil
}
