package handler

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamseason/backend/internal/application/fulfillment"
	"github.com/teamseason/backend/internal/domain/book"
	"github.com/teamseason/backend/internal/interfaces/http/dto"
)

// maxBookDataSize caps uploaded book data; entries carry photo data URLs,
// so payloads run large.
const maxBookDataSize = 32 << 20

// BookDataHandler accepts book data uploads and stores them for fulfillment
type BookDataHandler struct {
	BaseHandler
	artifacts fulfillment.ArtifactStore
	logger    *zap.Logger
}

// NewBookDataHandler creates a new book data handler.
// A nil artifact store marks the storage integration as unconfigured.
func NewBookDataHandler(artifacts fulfillment.ArtifactStore, logger *zap.Logger) *BookDataHandler {
	return &BookDataHandler{
		artifacts: artifacts,
		logger:    logger,
	}
}

// RegisterRoutes registers book data routes
func (h *BookDataHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/book-data", h.StoreBookData)
}

// BookDataResponse reports where uploaded book data was stored
type BookDataResponse struct {
	URL       string `json:"url"`
	PageCount int    `json:"pageCount"`
}

// StoreBookData handles POST /api/v1/book-data
func (h *BookDataHandler) StoreBookData(c *gin.Context) {
	if h.artifacts == nil {
		h.ServiceUnavailable(c, "Artifact storage is not configured")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBookDataSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(payload) > maxBookDataSize {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodePayloadTooLarge), dto.ErrCodePayloadTooLarge, "Book data exceeds maximum allowed size")
		return
	}

	var data book.BookData
	if err := json.Unmarshal(payload, &data); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidJSON, "Book data is not valid JSON")
		return
	}
	if data.Team.Name == "" {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "Book data is missing the team name")
		return
	}
	if len(data.Entries) == 0 {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "Book data has no entries")
		return
	}

	key := fmt.Sprintf("book-data/%s.json", uuid.NewString())
	url, err := h.artifacts.Store(c.Request.Context(), key, payload, "application/json")
	if err != nil {
		h.logger.Error("failed to store book data", zap.String("key", key), zap.Error(err))
		h.InternalError(c, "Failed to store book data")
		return
	}

	laidOut := book.Build(data)
	h.Created(c, BookDataResponse{
		URL:       url,
		PageCount: laidOut.TotalPages(),
	})
}
