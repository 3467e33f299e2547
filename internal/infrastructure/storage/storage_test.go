package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamseason/backend/internal/domain/book"
	infraconfig "github.com/teamseason/backend/internal/infrastructure/config"
)

func TestNewS3Store_RequiresCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  *infraconfig.StorageConfig
	}{
		{"nil config", nil},
		{"missing bucket", &infraconfig.StorageConfig{AccessKey: "a", SecretKey: "s"}},
		{"missing access key", &infraconfig.StorageConfig{Bucket: "b", SecretKey: "s"}},
		{"missing secret key", &infraconfig.StorageConfig{Bucket: "b", AccessKey: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Store(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewS3Store_Valid(t *testing.T) {
	store, err := NewS3Store(&infraconfig.StorageConfig{
		Bucket:    "books",
		AccessKey: "key",
		SecretKey: "secret",
		Endpoint:  "localhost:9000",
	})
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &StorageError{Op: "put", Key: "orders/x/cover.pdf", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "orders/x/cover.pdf")
}

func TestStubStore_RoundTrip(t *testing.T) {
	store := NewStubStore()
	ctx := t.Context()

	url, err := store.Store(ctx, "orders/ts_abc/cover.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/orders/ts_abc/cover.pdf", url)

	// Overwrite with the same key is allowed
	_, err = store.Store(ctx, "orders/ts_abc/cover.pdf", []byte("%PDF-1.5"), "application/pdf")
	assert.NoError(t, err)

	_, err = store.Store(ctx, "", []byte("x"), "application/pdf")
	assert.Error(t, err)
}

func TestStubStore_BookDataRoundTrip(t *testing.T) {
	store := NewStubStore()
	ctx := t.Context()

	in := book.BookData{Team: book.Team{Name: "Thunder SC", Sport: "Soccer"}}
	url, err := store.StoreBookData(ctx, "book-data/test.json", in)
	require.NoError(t, err)

	var out book.BookData
	require.NoError(t, store.FetchBookData(ctx, url, &out))
	assert.Equal(t, "Thunder SC", out.Team.Name)

	var missing book.BookData
	err = store.FetchBookData(ctx, store.BaseURL+"/book-data/other.json", &missing)
	assert.Error(t, err)
}
