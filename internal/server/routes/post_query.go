package routes

import (
	"net/http"

	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/query"
	graphstorage "github.com/docugraph/backend/pkg/store/pgx"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// QueryHandler answers a natural-language question over the user's
// completed documents.
func QueryHandler(c echo.Context) error {
	type queryBody struct {
		Query       string  `json:"query" validate:"required"`
		TopK        int     `json:"top_k"`
		UseGraph    *bool   `json:"use_graph"`
		DocumentIDs []int64 `json:"document_ids"`
	}

	data := new(queryBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	topK := data.TopK
	if topK <= 0 {
		topK = 5
	}
	useGraph := true
	if data.UseGraph != nil {
		useGraph = *data.UseGraph
	}

	app := c.(*middleware.AppContext).App
	db := graphstorage.NewGraphDBStorage(app.DBConn)
	trace := query.NewQueryTrace()
	engine := query.NewEngine(query.NewEngineParams{
		AIClient:  app.AiClient,
		Documents: db,
		Vectors:   db,
		Graph:     app.Graph,
		Trace:     trace,
	})

	ctx := c.Request().Context()
	resp, err := engine.Query(ctx, query.Request{
		Text:        data.Query,
		UserID:      user.UserID,
		TopK:        topK,
		UseGraph:    useGraph,
		DocumentIDs: data.DocumentIDs,
	})
	if err != nil {
		logger.Error("[Routes][Query] Query failed", "user_id", user.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	snapshot := trace.Snapshot()
	if len(snapshot.DegradedDocumentIDs) > 0 {
		logger.Warn("[Routes][Query] Degraded search", "user_id", user.UserID, "document_ids", snapshot.DegradedDocumentIDs)
	}

	return c.JSON(http.StatusOK, resp)
}
