// Package api exposes the notice QA service over HTTP: corpus listing and
// lookup, substring search, the chat query endpoint and index management.
package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/campusnotice/notice-qa/internal/errors"
	"github.com/campusnotice/notice-qa/model"
	"github.com/campusnotice/notice-qa/services"
)

const (
	defaultListLimit   = 50
	defaultSearchLimit = 20
	maxRequestBodySize = 10 << 20 // 10 MB
)

// API holds dependencies for the HTTP handlers.
type API struct {
	engine services.QueryEngine
	store  services.NoticeStore
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.QueryEngine, store services.NoticeStore) *API {
	return &API{engine: engine, store: store}
}

// SetupRoutes defines all API routes.
func SetupRoutes(router *gin.Engine, engine services.QueryEngine, store services.NoticeStore) {
	apiHandler := NewAPI(engine, store)

	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(maxRequestBodySize))

	router.GET("/health", apiHandler.HealthCheckHandler)

	postRoutes := router.Group("/posts")
	{
		postRoutes.GET("", apiHandler.ListPostsHandler)       // List known posts from the meta index
		postRoutes.GET("/:postID", apiHandler.GetPostHandler) // Return one parsed notice
		postRoutes.PUT("", apiHandler.PutPostsHandler)        // Ingest/backfill notices
	}

	router.GET("/search", apiHandler.SearchPostsHandler) // Substring search over titles and content
	router.POST("/chat", apiHandler.ChatHandler)         // Question answering
	router.POST("/reindex", apiHandler.ReindexHandler)   // Out-of-band index rebuild
}

// HealthCheckHandler reports service liveness and index readiness.
func (api *API) HealthCheckHandler(c *gin.Context) {
	ready, docs := api.engine.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"index_ready": ready,
		"indexed":     docs,
	})
}

// postListing is one entry of the /posts response.
type postListing struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url,omitempty"`
	Writer    string `json:"writer,omitempty"`
	FetchedAt int64  `json:"fetched_at"`
}

// ListPostsHandler lists known posts sorted by fetch time, newest first.
// Query params: limit (default 50).
func (api *API) ListPostsHandler(c *gin.Context) {
	limit := parsePositiveInt(c.Query("limit"), defaultListLimit)

	meta, err := api.store.ListMeta()
	if err != nil {
		SendInternalError(c, "list posts", err)
		return
	}

	listings := make([]postListing, 0, len(meta))
	for id, m := range meta {
		listings = append(listings, postListing{
			ID:        id,
			Title:     m.Title,
			URL:       m.URL,
			Writer:    m.Writer,
			FetchedAt: m.FetchedAt,
		})
	}
	sort.Slice(listings, func(i, j int) bool {
		if listings[i].FetchedAt != listings[j].FetchedAt {
			return listings[i].FetchedAt > listings[j].FetchedAt
		}
		return listings[i].ID < listings[j].ID
	})
	if len(listings) > limit {
		listings = listings[:limit]
	}

	c.JSON(http.StatusOK, gin.H{"count": len(listings), "results": listings})
}

// GetPostHandler returns the full parsed notice for an ID.
func (api *API) GetPostHandler(c *gin.Context) {
	postID := c.Param("postID")

	notice, err := api.store.Get(postID)
	if err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrNoticeNotFound):
			SendNoticeNotFoundError(c, postID)
		case errors.Is(err, internalErrors.ErrInvalidRequest):
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
		default:
			SendInternalError(c, "get post", err)
		}
		return
	}

	c.JSON(http.StatusOK, notice)
}

// PutPostsHandler ingests a batch of notices (the crawler's save step) and
// invalidates the index snapshot so the next query rebuilds lazily.
func (api *API) PutPostsHandler(c *gin.Context) {
	var notices []model.Notice
	if err := c.ShouldBindJSON(&notices); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if len(notices) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "At least one notice is required")
		return
	}

	stored := 0
	for i := range notices {
		if err := api.store.Put(&notices[i]); err != nil {
			if errors.Is(err, internalErrors.ErrInvalidRequest) {
				SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
				return
			}
			SendError(c, http.StatusInternalServerError, ErrorCodeIngestFailed,
				"Failed to store notice '"+notices[i].ID+"': "+err.Error())
			return
		}
		stored++
	}

	api.engine.Invalidate()
	c.JSON(http.StatusOK, gin.H{"ingested": stored})
}

// searchHit is one entry of the /search response.
type searchHit struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// SearchPostsHandler performs a plain substring search over titles and
// content. Query params: q (required), limit (default 20).
func (api *API) SearchPostsHandler(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "Query parameter 'q' is required")
		return
	}
	limit := parsePositiveInt(c.Query("limit"), defaultSearchLimit)
	ql := strings.ToLower(q)

	ids, err := api.store.ListIDs()
	if err != nil {
		SendInternalError(c, "search", err)
		return
	}
	meta, err := api.store.ListMeta()
	if err != nil {
		SendInternalError(c, "search", err)
		return
	}

	hits := make([]searchHit, 0)
	for _, id := range ids {
		notice, err := api.store.Get(id)
		if err != nil {
			continue // skip unreadable notices
		}
		if strings.Contains(strings.ToLower(notice.Title), ql) ||
			strings.Contains(strings.ToLower(notice.PlainContent()), ql) {
			hits = append(hits, searchHit{
				ID:    notice.ID,
				Title: notice.Title,
				URL:   meta[notice.ID].URL,
			})
		}
		if len(hits) >= limit {
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{"count": len(hits), "results": hits})
}

// ChatRequest is the body of a /chat call.
type ChatRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// ChatHandler answers a free-text question with relevant notices and
// grounded excerpts.
func (api *API) ChatHandler(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	result, err := api.engine.Query(c.Request.Context(), req.Question, req.TopK)
	if err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrInvalidRequest):
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
		case errors.Is(err, internalErrors.ErrIndexNotReady):
			SendIndexNotReadyError(c, err)
		default:
			SendInternalError(c, "chat", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReindexHandler rebuilds the index snapshot from the corpus and swaps it in
// atomically.
func (api *API) ReindexHandler(c *gin.Context) {
	if err := api.engine.Rebuild(c.Request.Context()); err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodeReindexFailed,
			"Failed to rebuild index: "+err.Error())
		return
	}
	_, docs := api.engine.Stats()
	c.JSON(http.StatusOK, gin.H{"status": "reindexed", "indexed": docs})
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
