package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/boddenberg/collections-bfa-go/internal/config"
	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := storage.New(config.Storage{}, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, domain.KindConfig, domain.Classify(err))
}

func TestStore_PutAndPresign(t *testing.T) {
	var mu sync.Mutex
	var gotPath, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusOK)
			return
		}
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		gotPath, gotType = r.URL.Path, r.Header.Get("Content-Type")
		mu.Unlock()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	st, err := storage.New(config.Storage{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Region:    "us-east-1",
		Bucket:    "collections",
	}, zap.NewNop())
	require.NoError(t, err)

	err = st.Put(context.Background(), "docs/a.txt", "text/plain", strings.NewReader("hello"), 5)
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, "/collections/docs/a.txt", gotPath)
	assert.Equal(t, "text/plain", gotType)
	mu.Unlock()

	link, err := st.PresignedURL(context.Background(), "docs/a.txt")
	require.NoError(t, err)
	assert.Contains(t, link, "/collections/docs/a.txt")
	assert.Contains(t, link, "X-Amz-Signature=")
}

func TestObjectKey(t *testing.T) {
	key := storage.ObjectKey("/documents/", `C:\tmp\contract.pdf`)
	assert.True(t, strings.HasPrefix(key, "documents/"))
	assert.True(t, strings.HasSuffix(key, "-contract.pdf"))

	assert.True(t, strings.HasSuffix(storage.ObjectKey("x", ""), "-file"))
}
