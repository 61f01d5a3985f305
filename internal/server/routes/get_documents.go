package routes

import (
	"net/http"
	"strconv"

	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"
	graphstorage "github.com/docugraph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

func GetDocumentsHandler(c echo.Context) error {
	type documentsResponse struct {
		Documents []common.Document `json:"documents"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	db := graphstorage.NewGraphDBStorage(c.(*middleware.AppContext).App.DBConn)

	documents, err := db.ListDocuments(ctx, user.UserID)
	if err != nil {
		logger.Error("[Routes][Documents] Failed to list documents", "user_id", user.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, documentsResponse{Documents: documents})
}

func GetDocumentHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid document ID"})
	}

	ctx := c.Request().Context()
	db := graphstorage.NewGraphDBStorage(c.(*middleware.AppContext).App.DBConn)

	doc, err := db.GetDocument(ctx, documentID, user.UserID)
	if err != nil {
		logger.Error("[Routes][Documents] Failed to load document", "document_id", documentID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if doc == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Document not found"})
	}

	return c.JSON(http.StatusOK, doc)
}
