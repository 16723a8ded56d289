// ABOUTME: HTTP handlers for chat, search, dictionary and chapter reading
// ABOUTME: Each handler validates its input and delegates to the reader core
package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harper/muzakir/internal/core"
	"github.com/harper/muzakir/internal/dictionary"
	"github.com/harper/muzakir/internal/logger"
	"github.com/harper/muzakir/internal/models"
)

// Handlers serves the reader API
type Handlers struct {
	pipeline   *core.Pipeline
	dictionary *dictionary.Engine
	logger     *logger.Logger
}

// NewHandlers creates HTTP handlers over the reader core
func NewHandlers(pipeline *core.Pipeline, engine *dictionary.Engine, log *logger.Logger) *Handlers {
	return &Handlers{pipeline: pipeline, dictionary: engine, logger: logger.OrNop(log)}
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Question       string `json:"question"`
	CurrentChapter string `json:"currentChapter"`
	ReferenceText  string `json:"referenceText"`
	Language       string `json:"language"`
}

// SearchRequest is the body of POST /api/search
type SearchRequest struct {
	Query     string   `json:"query"`
	Limit     *int     `json:"limit"`
	Threshold *float64 `json:"threshold"`
}

// SearchResponse echoes the trimmed query alongside its matches
type SearchResponse struct {
	Results []models.DocumentMatch `json:"results"`
	Query   string                 `json:"query"`
}

// DictionaryRequest is the body of POST /api/dictionary
type DictionaryRequest struct {
	Word          string `json:"word"`
	Context       string `json:"context"`
	FollowingText string `json:"followingText"`
}

// ChapterListResponse is a book with its chapters in order
type ChapterListResponse struct {
	Book     *models.Book        `json:"book"`
	Chapters []models.ChapterRef `json:"chapters"`
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Chat answers a question with generated text and its sources
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(c, http.StatusBadRequest, "Question is required and must be a non-empty string")
		return
	}
	if !core.ValidLanguage(req.Language) {
		respondError(c, http.StatusBadRequest, `Language must be "en" or "tr"`)
		return
	}

	resp, err := h.pipeline.Respond(c.Request.Context(), core.AnswerRequest{
		Question:            req.Question,
		CurrentChapterTitle: req.CurrentChapter,
		ReferenceText:       req.ReferenceText,
		Language:            req.Language,
	})
	if err != nil {
		h.fail(c, "chat failed", err)
		return
	}
	respondOK(c, resp)
}

// Search runs semantic search. Limit and threshold default to 10 and 0.25.
func (h *Handlers) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		respondError(c, http.StatusBadRequest, "Query is required and must be a non-empty string")
		return
	}

	limit, threshold := core.DefaultSearchLimit, core.DefaultSearchThreshold
	if req.Limit != nil {
		limit = *req.Limit
	}
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	matches, err := h.pipeline.Search(c.Request.Context(), query, limit, threshold)
	if err != nil {
		h.fail(c, "search failed", err)
		return
	}
	respondOK(c, SearchResponse{Results: matches, Query: query})
}

// Dictionary looks up a word. Without an explicit context the selection and
// following text supply one.
func (h *Handlers) Dictionary(c *gin.Context) {
	var req DictionaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Word) == "" {
		respondError(c, http.StatusBadRequest, "Word is required and must be a non-empty string")
		return
	}

	word, phrase := req.Word, req.Context
	if strings.TrimSpace(phrase) == "" {
		word, phrase = dictionary.ExtractContextWindow(req.Word, req.FollowingText, dictionary.DefaultWordsAfter)
	}
	respondOK(c, h.dictionary.Lookup(c.Request.Context(), word, phrase))
}

// ListChapters lists a book's chapters by slug
func (h *Handlers) ListChapters(c *gin.Context) {
	book, chapters, err := h.pipeline.Chapters().List(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, "list chapters failed", err)
		return
	}
	respondOK(c, ChapterListResponse{Book: book, Chapters: chapters})
}

// GetChapter returns a chapter's full text by id
func (h *Handlers) GetChapter(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, "Chapter id must be a positive integer")
		return
	}
	chapter, err := h.pipeline.Chapters().ByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get chapter failed", err)
		return
	}
	respondOK(c, chapter)
}

func (h *Handlers) fail(c *gin.Context, msg string, err error) {
	status, text := statusFor(err)
	log := h.logger.With("request_id", c.GetString(requestIDKey), "path", c.FullPath())
	if status >= http.StatusInternalServerError {
		log.Error(msg, "error", err)
	} else {
		log.Debug(msg, "error", err)
	}
	respondError(c, status, text)
}
