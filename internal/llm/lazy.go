// ABOUTME: Initialize-once accessor for the process-wide OpenAI client
// ABOUTME: A missing API key fails at first use, not at startup
package llm

import (
	"context"
	"sync"
)

// Lazy builds an OpenAIClient on first use and reuses it afterwards.
// A failed build is not cached, so setting the key later recovers.
type Lazy struct {
	mu     sync.Mutex
	config ClientConfig
	client *OpenAIClient
}

// NewLazy returns an accessor for a client built from config
func NewLazy(config ClientConfig) *Lazy {
	return &Lazy{config: config}
}

// Get returns the shared client, building it if needed
func (l *Lazy) Get() (*OpenAIClient, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		return l.client, nil
	}
	client, err := NewOpenAIClientWithConfig(&l.config)
	if err != nil {
		return nil, err
	}
	l.client = client
	return client, nil
}

// GenerateEmbedding delegates to the shared client
func (l *Lazy) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	client, err := l.Get()
	if err != nil {
		return nil, err
	}
	return client.GenerateEmbedding(ctx, text)
}

// ClassifyQuery delegates to the shared client
func (l *Lazy) ClassifyQuery(ctx context.Context, system, user string) (string, error) {
	client, err := l.Get()
	if err != nil {
		return "", err
	}
	return client.ClassifyQuery(ctx, system, user)
}

// GenerateAnswer delegates to the shared client
func (l *Lazy) GenerateAnswer(ctx context.Context, req CompletionRequest) (string, error) {
	client, err := l.Get()
	if err != nil {
		return "", err
	}
	return client.GenerateAnswer(ctx, req)
}
