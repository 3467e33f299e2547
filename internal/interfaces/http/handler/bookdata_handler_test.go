package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamseason/backend/internal/domain/book"
	"github.com/teamseason/backend/internal/infrastructure/storage"
	"github.com/teamseason/backend/internal/interfaces/http/dto"
)

func newBookDataRouter(h *BookDataHandler) *gin.Engine {
	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func validBookData() book.BookData {
	return book.BookData{
		Team:   book.Team{Name: "Eastside Eagles", Sport: "soccer"},
		Season: book.Season{ID: "s1", Name: "Fall 2025"},
		Entries: []book.Entry{
			{
				ID:   "e1",
				Type: book.EntryTypeGame,
				Date: time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC),
				Text: "Season opener under a perfect sky.",
			},
		},
	}
}

func TestBookDataHandler_Store(t *testing.T) {
	store := storage.NewStubStore()
	h := NewBookDataHandler(store, zap.NewNop())
	engine := newBookDataRouter(h)

	payload, err := json.Marshal(validBookData())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/book-data", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result BookDataResponse
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Contains(t, result.URL, "book-data/")
	assert.Contains(t, result.URL, ".json")

	expected := book.Build(validBookData())
	assert.Equal(t, expected.TotalPages(), result.PageCount)

	// Stored payload round-trips through the store
	var fetched book.BookData
	require.NoError(t, store.FetchBookData(t.Context(), result.URL, &fetched))
	assert.Equal(t, "Eastside Eagles", fetched.Team.Name)
}

func TestBookDataHandler_Unconfigured(t *testing.T) {
	h := NewBookDataHandler(nil, zap.NewNop())
	engine := newBookDataRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/book-data", bytes.NewReader([]byte(`{}`)))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotConfigured, resp.Error.Code)
}

func TestBookDataHandler_RejectsInvalidPayloads(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		expectedCode string
	}{
		{
			name:         "malformed json",
			body:         `{"team":`,
			expectedCode: dto.ErrCodeInvalidJSON,
		},
		{
			name:         "missing team name",
			body:         `{"team":{"sport":"soccer"},"entries":[{"id":"e1"}]}`,
			expectedCode: dto.ErrCodeInvalidInput,
		},
		{
			name:         "no entries",
			body:         `{"team":{"name":"Eagles"},"entries":[]}`,
			expectedCode: dto.ErrCodeInvalidInput,
		},
	}

	h := NewBookDataHandler(storage.NewStubStore(), zap.NewNop())
	engine := newBookDataRouter(h)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/v1/book-data", bytes.NewReader([]byte(tt.body)))
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}
