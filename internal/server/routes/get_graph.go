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

// GetDocumentGraphHandler returns the knowledge graph extracted from a
// single document. Ownership is checked against the documents table.
func GetDocumentGraphHandler(c echo.Context) error {
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
		logger.Error("[Routes][Graph] Failed to load document", "document_id", documentID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if doc == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Document not found"})
	}

	view, err := app.Graph.GetDocumentGraph(ctx, documentID)
	if err != nil {
		logger.Error("[Routes][Graph] Failed to load document graph", "document_id", documentID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, view)
}

// GetUserGraphHandler returns the combined graph over the user's documents,
// optionally filtered by document_ids.
func GetUserGraphHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	documentIDs, err := parseDocumentIDs(c.QueryParams()["document_ids"])
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid document IDs"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	view, err := app.Graph.GetUserGraph(ctx, user.UserID, documentIDs)
	if err != nil {
		logger.Error("[Routes][Graph] Failed to load user graph", "user_id", user.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, view)
}

// GetRelatedEntitiesHandler expands the graph outward from entities whose
// name matches the given pattern.
func GetRelatedEntitiesHandler(c echo.Context) error {
	type relatedResponse struct {
		Entities []common.RelatedEntity `json:"entities"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	name := c.QueryParam("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing name parameter"})
	}

	maxDepth := 2
	if raw := c.QueryParam("max_depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 5 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid max_depth"})
		}
		maxDepth = parsed
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	entities, err := app.Graph.FindRelatedEntities(ctx, name, user.UserID, maxDepth)
	if err != nil {
		logger.Error("[Routes][Graph] Failed to find related entities", "user_id", user.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, relatedResponse{Entities: entities})
}

// GetShortestPathHandler returns the shortest connection between two named
// entities in the user's graph.
func GetShortestPathHandler(c echo.Context) error {
	type pathResponse struct {
		Path  []common.GraphNode `json:"path"`
		Found bool               `json:"found"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if from == "" || to == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing from or to parameter"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	path, err := app.Graph.FindShortestPath(ctx, from, to, user.UserID)
	if err != nil {
		logger.Error("[Routes][Graph] Failed to find shortest path", "user_id", user.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, pathResponse{Path: path, Found: len(path) > 0})
}

// GetStatisticsHandler summarizes the user's knowledge graph.
func GetStatisticsHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	stats, err := app.Graph.GetStatistics(ctx, user.UserID)
	if err != nil {
		logger.Error("[Routes][Graph] Failed to load statistics", "user_id", user.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, stats)
}

func parseDocumentIDs(raw []string) ([]int64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
