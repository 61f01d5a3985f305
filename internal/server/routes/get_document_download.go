package routes

import (
	"net/http"
	"strconv"

	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/internal/storage"
	"github.com/docugraph/backend/pkg/logger"
	graphstorage "github.com/docugraph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// DownloadDocumentHandler returns a time-limited download link for the
// original uploaded file.
func DownloadDocumentHandler(c echo.Context) error {
	type downloadResponse struct {
		URL string `json:"url"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid document ID"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()
	db := graphstorage.NewGraphDBStorage(app.DBConn)

	doc, err := db.GetDocument(ctx, documentID, user.UserID)
	if err != nil {
		logger.Error("[Routes][Documents] Failed to load document", "document_id", documentID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if doc == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Document not found"})
	}

	url, err := storage.GenerateDownloadLink(ctx, app.S3, doc.StorageKey)
	if err != nil {
		logger.Error("[Routes][Documents] Failed to presign download", "document_id", documentID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, downloadResponse{URL: url})
}
