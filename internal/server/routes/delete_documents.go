package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/docugraph/backend/internal/queue"
	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/pkg/logger"
	graphstorage "github.com/docugraph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// DeleteDocumentHandler queues a document for deletion. The worker removes
// the graph, the relational rows and the stored file.
func DeleteDocumentHandler(c echo.Context) error {
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

	payload, err := json.Marshal(queue.DeleteMessage{
		DocumentID: doc.ID,
		UserID:     user.UserID,
		StorageKey: doc.StorageKey,
	})
	if err != nil {
		logger.Error("[Routes][Documents] Failed to marshal delete message", "document_id", doc.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if err := queue.PublishFIFO(app.Queue, queue.DeleteQueue, payload); err != nil {
		logger.Error("[Routes][Documents] Failed to publish delete message", "document_id", doc.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Document queued for deletion"})
}
