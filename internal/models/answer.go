// ABOUTME: Outputs of context assembly and answer generation
// ABOUTME: Context and Sources must stay referentially consistent
package models

// AssembledContext is the bounded prompt context plus its attribution list
type AssembledContext struct {
	Context string   `json:"context"`
	Sources []string `json:"sources"`
}

// AnswerContext is returned by the pipeline for one question
type AnswerContext struct {
	Context             string             `json:"context"`
	Sources             []string           `json:"sources"`
	PrimaryChapterFound bool               `json:"primaryChapterFound"`
	Understanding       QueryUnderstanding `json:"understanding"`
}

// ChatResponse is the generated answer with its sources
type ChatResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}
