// ABOUTME: MCP tool definitions and registration for the Muzakir server
// ABOUTME: Exposes question answering, word lookup, passage search and chapter reading to agents
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/muzakir/internal/app"
)

// ToolNames lists the registered tools in registration order
var ToolNames = []string{"ask_question", "lookup_word", "search_passages", "get_chapter", "list_chapters"}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, a *app.App) *Handlers {
	handlers := NewHandlers(a.Pipeline, a.Dictionary, a.Logger)

	// 1. ask_question - grounded context (and optionally an answer) for a question
	server.AddTool(mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question about the Risale-i Nur. Resolves chapter references such as \"Dördüncü Söz\" or \"4th Word\", finds related passages, and returns the assembled context with its sources.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The reader's question, in Turkish or English",
				},
				"current_chapter": map[string]interface{}{
					"type":        "string",
					"description": "Title of the chapter the reader has open, used for \"this chapter\" questions",
				},
				"reference_text": map[string]interface{}{
					"type":        "string",
					"description": "Passage the reader selected; biases retrieval toward it",
				},
				"generate": map[string]interface{}{
					"type":        "boolean",
					"description": "Also generate an answer with the chat model (default: false)",
					"default":     false,
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskQuestion)

	// 2. lookup_word - dictionary lookup with suffix stripping and phrase matching
	server.AddTool(mcp.Tool{
		Name:        "lookup_word",
		Description: "Look up an Ottoman Turkish word in the dictionary. Handles inflected forms and multi-word terms such as \"ehl-i sünnet\".",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"word": map[string]interface{}{
					"type":        "string",
					"description": "The word to look up, or the whole selection when context is omitted",
				},
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Words that follow the clicked word, for phrase matching",
				},
				"following_text": map[string]interface{}{
					"type":        "string",
					"description": "Text after a single-word selection; the next two words become the context",
				},
			},
			Required: []string{"word"},
		},
	}, handlers.LookupWord)

	// 3. search_passages - plain semantic search
	server.AddTool(mcp.Tool{
		Name:        "search_passages",
		Description: "Semantic search over Risale-i Nur passages. Returns matches with similarity, book and chapter.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 10)",
					"default":     10,
				},
				"threshold": map[string]interface{}{
					"type":        "number",
					"description": "Minimum similarity between 0 and 1 (default: 0.25)",
					"default":     0.25,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchPassages)

	// 4. get_chapter - full chapter text by id, reference or title
	server.AddTool(mcp.Tool{
		Name:        "get_chapter",
		Description: "Get the full text of a chapter by id, by number and type (e.g. 4 and \"söz\"), or by title.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chapter_id": map[string]interface{}{
					"type":        "number",
					"description": "Chapter id",
				},
				"number": map[string]interface{}{
					"type":        "number",
					"description": "Chapter number within its book",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Section type: söz, mektup, lem'a or şua (English names accepted)",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Chapter title or part of it",
				},
			},
		},
	}, handlers.GetChapter)

	// 5. list_chapters - chapters of one book
	server.AddTool(mcp.Tool{
		Name:        "list_chapters",
		Description: "List the chapters of a book by its slug (sozler, mektubat, lemalar, sualar).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"book_slug": map[string]interface{}{
					"type":        "string",
					"description": "Book slug",
				},
			},
			Required: []string{"book_slug"},
		},
	}, handlers.ListChapters)

	return handlers
}
