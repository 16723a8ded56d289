// ABOUTME: Question-answering pipeline: classify, resolve the primary chapter, retrieve, assemble
// ABOUTME: Also generates the chat answer and serves plain semantic search
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harper/muzakir/internal/llm"
	"github.com/harper/muzakir/internal/logger"
	"github.com/harper/muzakir/internal/models"
	"github.com/harper/muzakir/internal/storage"
)

const (
	// MaxReferenceChars bounds the selected passage appended to the embedding text
	MaxReferenceChars = 200

	// DefaultSearchLimit and DefaultSearchThreshold apply to plain semantic search
	DefaultSearchLimit     = 10
	DefaultSearchThreshold = 0.25

	answerTemperature = 0.3
	answerMaxTokens   = 1024

	// FallbackResponse is returned when the model produced no text
	FallbackResponse = "I apologize, but I was unable to generate a response. Please try again."
)

// ResponderPrompt is the system prompt for answer generation
const ResponderPrompt = `You are Muzakir, a knowledgeable and helpful AI assistant specialized in the Risale-i Nur collection by Bediüzzaman Said Nursi.

Your role is to help users understand and explore the profound spiritual and philosophical teachings contained in these works.

INSTRUCTIONS:
1. Base your answers on the Context provided below. The Context contains relevant excerpts from the Risale-i Nur.
2. When the Context has a PRIMARY SOURCE, it is the chapter the user asked about; answer from it first.
3. Synthesize and explain the information from the Context in a clear, helpful manner.
4. You may explain concepts in simpler terms and provide additional context to help understanding.
5. Maintain a respectful, scholarly tone appropriate for religious and philosophical discussion.
6. If the Context truly does not contain any relevant information to the question, acknowledge this and suggest the user try a different question.

The Context below contains excerpts that were semantically matched to the user's question. Use this information to provide a helpful, grounded response.`

// Answerer generates free text from a prompt
type Answerer interface {
	GenerateAnswer(ctx context.Context, req llm.CompletionRequest) (string, error)
}

// Client is every model call the pipeline makes. *llm.Lazy implements it.
type Client interface {
	Embedder
	QueryClassifier
	Answerer
}

// AnswerRequest is one question from the reader
type AnswerRequest struct {
	Question            string `json:"question"`
	CurrentChapterTitle string `json:"currentChapter,omitempty"`
	ReferenceText       string `json:"referenceText,omitempty"`
	// Language asks for the answer in "en" or "tr"; empty lets the model
	// follow the question
	Language string `json:"language,omitempty"`
}

// answerLanguages maps the supported answer languages to their prompt line
var answerLanguages = map[string]string{
	"en": "Please answer in English.",
	"tr": "Lütfen Türkçe cevap verin.",
}

// ValidLanguage reports whether lang is empty or a supported answer language
func ValidLanguage(lang string) bool {
	_, ok := answerLanguages[lang]
	return lang == "" || ok
}

// PipelineConfig tunes retrieval
type PipelineConfig struct {
	MatchThreshold    float64
	MatchCount        int
	PrimaryMatchCount int
	// RequestTimeout bounds similarity retrieval; zero means no bound
	RequestTimeout time.Duration
}

// DefaultPipelineConfig returns threshold 0.25, five matches, three when a
// primary chapter is expected, and a 20 second retrieval bound.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MatchThreshold:    0.25,
		MatchCount:        5,
		PrimaryMatchCount: 3,
		RequestTimeout:    20 * time.Second,
	}
}

// Pipeline answers questions about the corpus
type Pipeline struct {
	classifier *Classifier
	chapters   *ChapterResolver
	retriever  *Retriever
	assembler  *ContextAssembler
	answerer   Answerer
	config     PipelineConfig
	logger     *logger.Logger
}

// NewPipeline wires the pipeline components over one store and one model client
func NewPipeline(store storage.Reader, client Client, config PipelineConfig, log *logger.Logger) *Pipeline {
	log = logger.OrNop(log)
	return &Pipeline{
		classifier: NewClassifier(client, log),
		chapters:   NewChapterResolver(store, log),
		retriever:  NewRetriever(client, store, log),
		assembler:  NewContextAssembler(),
		answerer:   client,
		config:     config,
		logger:     log,
	}
}

// Classifier returns the pipeline's classifier
func (p *Pipeline) Classifier() *Classifier { return p.classifier }

// Chapters returns the pipeline's chapter resolver
func (p *Pipeline) Chapters() *ChapterResolver { return p.chapters }

// AnswerQuestion builds the grounded context for a question. Chapter
// resolution and similarity retrieval run concurrently; a retrieval timeout
// degrades to no related passages.
func (p *Pipeline) AnswerQuestion(ctx context.Context, req AnswerRequest) (*models.AnswerContext, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	current := strings.TrimSpace(req.CurrentChapterTitle)

	understanding := p.classifier.Analyze(ctx, question, current)
	wantsNumber := understanding.ReferencesSpecificChapter && understanding.ChapterNumber != nil
	wantsCurrent := !wantsNumber && understanding.RelatedToCurrentContext && current != ""

	opts := models.SearchOptions{MatchThreshold: p.config.MatchThreshold, MatchCount: p.config.MatchCount}
	if wantsNumber || wantsCurrent {
		opts.MatchCount = p.config.PrimaryMatchCount
	}
	if err := ValidateSearchOptions(opts); err != nil {
		return nil, err
	}

	p.logger.Debug("analyzed question",
		"references_chapter", understanding.ReferencesSpecificChapter,
		"related_to_current", understanding.RelatedToCurrentContext,
		"search_query", understanding.SearchQuery)

	var primary *models.ChapterWithContent
	var related []models.DocumentMatch

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		switch {
		case wantsNumber:
			primary, err = p.chapters.ByNumber(gctx, *understanding.ChapterNumber, understanding.ChapterType)
		case wantsCurrent:
			primary, err = p.chapters.ByTitle(gctx, current)
		}
		return err
	})
	g.Go(func() error {
		var err error
		related, err = p.retrieveRelated(gctx, embeddingText(understanding.SearchQuery, req.ReferenceText), opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	assembled := p.assembler.Build(primary, related)
	return &models.AnswerContext{
		Context:             assembled.Context,
		Sources:             assembled.Sources,
		PrimaryChapterFound: primary != nil,
		Understanding:       understanding,
	}, nil
}

func (p *Pipeline) retrieveRelated(ctx context.Context, text string, opts models.SearchOptions) ([]models.DocumentMatch, error) {
	rctx := ctx
	if p.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, p.config.RequestTimeout)
		defer cancel()
	}

	matches, err := p.retriever.Search(rctx, text, opts)
	if err != nil {
		if ctx.Err() == nil && errors.Is(rctx.Err(), context.DeadlineExceeded) {
			p.logger.Warn("similarity retrieval timed out, continuing without related passages",
				"timeout", p.config.RequestTimeout)
			return nil, nil
		}
		return nil, err
	}
	return matches, nil
}

// embeddingText appends the start of the reader's selection to the query
func embeddingText(query, reference string) string {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return query
	}
	if runes := []rune(reference); len(runes) > MaxReferenceChars {
		reference = string(runes[:MaxReferenceChars])
	}
	return query + " " + reference
}

// Respond answers a question with generated text grounded in the assembled context
func (p *Pipeline) Respond(ctx context.Context, req AnswerRequest) (*models.ChatResponse, error) {
	answer, err := p.AnswerQuestion(ctx, req)
	if err != nil {
		return nil, err
	}

	text, err := p.answerer.GenerateAnswer(ctx, llm.CompletionRequest{
		System:      ResponderPrompt,
		User:        AnswerUserMessage(answer.Context, strings.TrimSpace(req.Question), req.CurrentChapterTitle, req.Language),
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		p.logger.Error("answer generation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		text = FallbackResponse
	}
	return &models.ChatResponse{Response: text, Sources: answer.Sources}, nil
}

// AnswerUserMessage builds the user turn of the answer prompt. An empty
// context is replaced by NoContextMarker; unsupported languages are ignored.
func AnswerUserMessage(assembled, question, currentChapter, language string) string {
	var msg string
	if assembled != "" {
		msg = fmt.Sprintf("Context:\n%s\n\n---\n\nUser Question: %s", assembled, question)
	} else {
		msg = fmt.Sprintf("%s\n\nUser Question: %s", NoContextMarker, question)
	}
	if c := strings.TrimSpace(currentChapter); c != "" {
		msg += fmt.Sprintf("\n\n(The user is currently reading: %s)", c)
	}
	if line, ok := answerLanguages[language]; ok {
		msg += "\n\n" + line
	}
	return msg
}

// Search runs plain semantic search. Callers apply DefaultSearchLimit and
// DefaultSearchThreshold when the caller gave none; explicit values are
// validated as given.
func (p *Pipeline) Search(ctx context.Context, query string, limit int, threshold float64) ([]models.DocumentMatch, error) {
	return p.retriever.Search(ctx, query, models.SearchOptions{MatchThreshold: threshold, MatchCount: limit})
}
