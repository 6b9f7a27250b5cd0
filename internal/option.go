package internal

import (
	"github.com/starford/dagaz/internal/blob"
	"github.com/starford/dagaz/internal/llm"
	"github.com/starford/dagaz/internal/store"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config

	// Injected implementations for tests; nil means build from config.
	store store.Store
	blobs blob.Provider
	llm   llm.Client
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStore overrides the entity store.
func WithStore(st store.Store) Option {
	return func(a *application) {
		a.store = st
	}
}

// WithBlobs overrides the blob provider.
func WithBlobs(p blob.Provider) Option {
	return func(a *application) {
		a.blobs = p
	}
}

// WithLLM overrides the completion client.
func WithLLM(c llm.Client) Option {
	return func(a *application) {
		a.llm = c
	}
}
