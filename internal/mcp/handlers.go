// ABOUTME: MCP tool handler implementations for the Muzakir server
// ABOUTME: Thin adapters from tool arguments onto the reader core, with tool-level errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/muzakir/internal/core"
	"github.com/harper/muzakir/internal/dictionary"
	"github.com/harper/muzakir/internal/lexicon"
	"github.com/harper/muzakir/internal/logger"
	"github.com/harper/muzakir/internal/models"
	"github.com/harper/muzakir/internal/storage"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	pipeline   *core.Pipeline
	dictionary *dictionary.Engine
	logger     *logger.Logger
}

// NewHandlers creates tool handlers over the reader core
func NewHandlers(pipeline *core.Pipeline, engine *dictionary.Engine, log *logger.Logger) *Handlers {
	return &Handlers{pipeline: pipeline, dictionary: engine, logger: logger.OrNop(log)}
}

// AskQuestion handles the ask_question tool
func (h *Handlers) AskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil || strings.TrimSpace(question) == "" {
		return mcp.NewToolResultError("question argument is required and must be a non-empty string"), nil
	}
	req := core.AnswerRequest{
		Question:            question,
		CurrentChapterTitle: request.GetString("current_chapter", ""),
		ReferenceText:       request.GetString("reference_text", ""),
	}
	log := h.requestLogger("ask_question")

	if request.GetBool("generate", false) {
		resp, err := h.pipeline.Respond(ctx, req)
		if err != nil {
			log.Error("respond failed", "error", err)
			return mcp.NewToolResultError(userMessage(err)), nil
		}
		return jsonResult(resp)
	}

	answer, err := h.pipeline.AnswerQuestion(ctx, req)
	if err != nil {
		log.Error("answer question failed", "error", err)
		return mcp.NewToolResultError(userMessage(err)), nil
	}
	if answer.Context == "" {
		answer.Context = core.NoContextMarker
	}
	return jsonResult(answer)
}

// LookupWord handles the lookup_word tool
func (h *Handlers) LookupWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := request.RequireString("word")
	if err != nil || strings.TrimSpace(word) == "" {
		return mcp.NewToolResultError("word argument is required and must be a non-empty string"), nil
	}

	phrase := request.GetString("context", "")
	if phrase == "" {
		word, phrase = dictionary.ExtractContextWindow(word, request.GetString("following_text", ""), dictionary.DefaultWordsAfter)
	}
	result := h.dictionary.Lookup(ctx, word, phrase)
	h.requestLogger("lookup_word").Debug("lookup", "word", word, "found", result.Found, "method", result.Method)
	return jsonResult(result)
}

// SearchPassages handles the search_passages tool
func (h *Handlers) SearchPassages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query argument is required and must be a non-empty string"), nil
	}

	limit := request.GetInt("limit", core.DefaultSearchLimit)
	threshold := request.GetFloat("threshold", core.DefaultSearchThreshold)
	matches, err := h.pipeline.Search(ctx, query, limit, threshold)
	if err != nil {
		h.requestLogger("search_passages").Error("search failed", "error", err)
		return mcp.NewToolResultError(userMessage(err)), nil
	}
	return jsonResult(map[string]interface{}{
		"results": matches,
		"count":   len(matches),
	})
}

// GetChapter handles the get_chapter tool
func (h *Handlers) GetChapter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chapters := h.pipeline.Chapters()
	var chapter *models.ChapterWithContent
	var err error

	switch {
	case request.GetInt("chapter_id", 0) > 0:
		chapter, err = chapters.ByID(ctx, int64(request.GetInt("chapter_id", 0)))
	case request.GetInt("number", 0) > 0:
		var chapterType *models.ChapterType
		if t, ok := lexicon.ParseChapterType(request.GetString("type", "")); ok {
			chapterType = &t
		}
		chapter, err = chapters.ByNumber(ctx, request.GetInt("number", 0), chapterType)
	case strings.TrimSpace(request.GetString("title", "")) != "":
		chapter, err = chapters.ByTitle(ctx, request.GetString("title", ""))
	default:
		return mcp.NewToolResultError("one of chapter_id, number or title is required"), nil
	}

	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.requestLogger("get_chapter").Error("chapter lookup failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to load chapter: %v", err)), nil
	}
	if chapter == nil {
		return mcp.NewToolResultError("chapter not found"), nil
	}
	return jsonResult(chapter)
}

// ListChapters handles the list_chapters tool
func (h *Handlers) ListChapters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := request.RequireString("book_slug")
	if err != nil || strings.TrimSpace(slug) == "" {
		return mcp.NewToolResultError("book_slug argument is required and must be a string"), nil
	}

	book, chapters, err := h.pipeline.Chapters().List(ctx, slug)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("book %q not found", slug)), nil
	}
	if err != nil {
		h.requestLogger("list_chapters").Error("list chapters failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to list chapters: %v", err)), nil
	}

	items := make([]map[string]interface{}, 0, len(chapters))
	for _, c := range chapters {
		items = append(items, map[string]interface{}{
			"id":             c.ID,
			"title":          c.Title,
			"chapter_number": c.ChapterNumber,
		})
	}
	return jsonResult(map[string]interface{}{
		"book":     book,
		"chapters": items,
	})
}

func (h *Handlers) requestLogger(tool string) *logger.Logger {
	return h.logger.With("tool", tool, "request_id", uuid.NewString())
}

// userMessage turns a core error into the text shown to the agent
func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyQuestion), errors.Is(err, core.ErrInvalidSearchParams), errors.Is(err, core.ErrEmptyEmbeddingText):
		return err.Error()
	case errors.Is(err, core.ErrEmbeddingFailed):
		return "Failed to process your question. Please try again."
	case errors.Is(err, core.ErrSearchFailed):
		return "Failed to search the knowledge base. Please try again."
	case errors.Is(err, core.ErrGenerationFailed):
		return "Failed to generate a response. Please try again."
	default:
		return "An unexpected error occurred. Please try again later."
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
