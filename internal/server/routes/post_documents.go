package routes

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/docugraph/backend/internal/queue"
	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/internal/storage"
	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"
	graphstorage "github.com/docugraph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// UploadDocumentHandler accepts a plain-text document as multipart/form-data,
// stores it and queues it for ingestion.
func UploadDocumentHandler(c echo.Context) error {
	type uploadResponse struct {
		Message  string           `json:"message"`
		Document *common.Document `json:"document,omitempty"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, uploadResponse{Message: "Unauthorized"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "Missing file"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".txt" && ext != ".md" {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "Only plain-text documents are supported"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "Invalid file"})
	}
	defer src.Close()

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	fileID, err := gonanoid.New()
	if err != nil {
		logger.Error("[Routes][Documents] Failed to generate file ID", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Internal server error"})
	}
	key := fileID + "_" + filepath.Base(fileHeader.Filename)

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	storageKey, err := storage.PutFile(ctx, app.S3, user.UserID, key, contentType, src)
	if err != nil {
		logger.Error("[Routes][Documents] Failed to store file", "user_id", user.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Internal server error"})
	}

	db := graphstorage.NewGraphDBStorage(app.DBConn)
	doc, err := db.CreateDocument(ctx, common.Document{
		Filename:   fileHeader.Filename,
		FileType:   strings.TrimPrefix(ext, "."),
		FileSize:   fileHeader.Size,
		StorageKey: storageKey,
		UserID:     user.UserID,
	})
	if err != nil {
		logger.Error("[Routes][Documents] Failed to create document", "user_id", user.UserID, "err", err)
		if deleteErr := storage.DeleteFile(ctx, app.S3, storageKey); deleteErr != nil {
			logger.Warn("[Routes][Documents] Failed to clean up stored file", "key", storageKey, "err", deleteErr)
		}
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Internal server error"})
	}

	payload, err := json.Marshal(queue.IngestMessage{
		DocumentID: doc.ID,
		UserID:     user.UserID,
	})
	if err != nil {
		logger.Error("[Routes][Documents] Failed to marshal ingest message", "document_id", doc.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Internal server error"})
	}
	if err := queue.PublishFIFO(app.Queue, queue.IngestQueue, payload); err != nil {
		logger.Error("[Routes][Documents] Failed to publish ingest message", "document_id", doc.ID, "err", err)
		if markErr := db.MarkDocumentFailed(ctx, doc.ID, "failed to queue document for processing"); markErr != nil {
			logger.Warn("[Routes][Documents] Failed to mark document as failed", "document_id", doc.ID, "err", markErr)
		}
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, uploadResponse{
		Message:  "Document queued for processing",
		Document: &doc,
	})
}
