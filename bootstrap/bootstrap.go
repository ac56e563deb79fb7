// Package bootstrap assembles the HR assistant from configuration. Both the
// HTTP server and the terminal client start through Build.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github/itish2003/hrfaq/config"
	"github/itish2003/hrfaq/services"
)

// App holds the long-lived components of a running assistant.
type App struct {
	Config  *config.AppConfig
	Indexes *services.IndexHolder
	Watcher *services.FAQWatcher
	Chat    services.ChatService
	Metrics *services.Metrics

	closers []io.Closer
}

// Close releases external clients.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			log.Printf("Warning: failed to close client: %v", err)
		}
	}
}

// StartWatcher rebuilds the index on FAQ file changes in the background
// until ctx is done. It does nothing unless faq.watch is set.
func (a *App) StartWatcher(ctx context.Context) {
	if !a.Config.FAQ.Watch {
		return
	}
	go func() {
		if err := a.Watcher.Watch(ctx); err != nil {
			log.Printf("WATCHER ERROR: %v", err)
		}
	}()
}

// Build creates every component and performs the blocking FAQ index build.
// A FAQ that cannot be loaded or embedded is fatal: the error is returned
// and nothing is served.
func Build(ctx context.Context, cfg *config.AppConfig, reg prometheus.Registerer) (*App, error) {
	app := &App{Config: cfg, Metrics: services.NewMetrics(reg)}
	clients := &clientCache{}

	if err := services.ConfigurePDFLicense(config.APIKey(cfg.PDF.LicenseKeyEnv)); err != nil {
		log.Printf("Warning: %v", err)
	}

	embedder, err := newEmbedder(ctx, cfg.Embedder, clients)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	fallback, err := newFallbackClient(ctx, cfg.Fallback, clients)
	if err != nil {
		return nil, fmt.Errorf("creating fallback client: %w", err)
	}

	loader := &services.FAQLoader{
		Path: cfg.FAQ.Path,
		Options: services.FAQSourceOptions{
			QuestionHeader: cfg.FAQ.QuestionHeader,
			AnswerHeader:   cfg.FAQ.AnswerHeader,
		},
		Embedder: embedder,
	}

	listeners := []services.IndexListener{
		func(_ context.Context, idx *services.FAQIndex) { app.Metrics.SetIndexSize(idx.Len()) },
	}
	if cfg.Chroma.Enabled {
		mirror, closer, err := newChromaMirror(ctx, cfg.Chroma)
		if err != nil {
			log.Printf("Warning: chroma mirror disabled: %v", err)
		} else {
			app.closers = append(app.closers, closer)
			listeners = append(listeners, mirror.Listener())
		}
	}

	app.Indexes = services.NewIndexHolder(nil)
	app.Watcher = services.NewFAQWatcher(loader, app.Indexes, listeners...)
	log.Printf("INDEXER: Building FAQ index from %s with %s...", cfg.FAQ.Path, embedder.Name())
	if err := app.Watcher.Reload(ctx); err != nil {
		app.Close()
		return nil, err
	}

	router := services.NewRouter(
		app.Indexes,
		services.NewMatcher(embedder, cfg.Matcher.ThresholdValue()),
		fallback,
		services.RouterOptions{
			FallbackTimeout: time.Duration(cfg.Fallback.TimeoutSecs) * time.Second,
			MaxRetries:      cfg.Fallback.MaxRetries,
		},
		app.Metrics,
	)
	app.Chat = services.NewChatService(services.NewSessionStore(), router, app.Indexes, cfg.History.Dir)
	return app, nil
}

// clientCache shares one provider client between the embedder and the
// fallback when both use the same provider.
type clientCache struct {
	gemini *genai.Client
}

func (c *clientCache) geminiClient(ctx context.Context, keyEnv string) (*genai.Client, error) {
	if c.gemini != nil {
		return c.gemini, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey(keyEnv),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w. Make sure %s is set", err, keyEnv)
	}
	log.Println("Successfully connected to Google Gemini.")
	c.gemini = client
	return client, nil
}

func openAIClient(baseURL, keyEnv string) (*openai.Client, error) {
	key := config.APIKey(keyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", keyEnv)
	}
	oc := openai.DefaultConfig(key)
	if baseURL != "" {
		oc.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(oc), nil
}

// newEmbedder builds the embedder selected by cfg.Type.
func newEmbedder(ctx context.Context, cfg config.EmbedderConfig, clients *clientCache) (services.Embedder, error) {
	switch cfg.Type {
	case "gemini":
		client, err := clients.geminiClient(ctx, cfg.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		return services.NewGeminiEmbedder(client, cfg.Model), nil
	case "openai":
		client, err := openAIClient(cfg.BaseURL, cfg.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		return services.NewOpenAIEmbedder(client, cfg.Model), nil
	case "ollama":
		return services.NewOllamaEmbedder(&http.Client{Timeout: 30 * time.Second}, cfg.BaseURL, cfg.Model), nil
	case "tfidf":
		return services.NewTFIDFEmbedder(), nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

// newFallbackClient builds the generative model selected by cfg.Type.
func newFallbackClient(ctx context.Context, cfg config.FallbackConfig, clients *clientCache) (services.FallbackClient, error) {
	switch cfg.Type {
	case "gemini":
		client, err := clients.geminiClient(ctx, cfg.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		return services.NewGeminiClient(client, cfg.Model), nil
	case "openai":
		client, err := openAIClient(cfg.BaseURL, cfg.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		return services.NewOpenAIClient(client, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown fallback: %s", cfg.Type)
	}
}

func newChromaMirror(ctx context.Context, cfg config.ChromaConfig) (*services.ChromaMirror, io.Closer, error) {
	var opts []chromago.ClientOption
	if cfg.URL != "" {
		opts = append(opts, chromago.WithBaseURL(cfg.URL))
	}
	client, err := chromago.NewHTTPClient(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create chroma client: %w", err)
	}
	collection, err := client.GetOrCreateCollection(
		ctx,
		cfg.Collection,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "HR FAQ questions and their embeddings"),
				chromago.NewStringAttribute("created_by", "hrfaq"),
			),
		),
	)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to get or create collection %q: %w", cfg.Collection, err)
	}
	log.Printf("Successfully got/created chroma collection '%s'", cfg.Collection)
	return services.NewChromaMirror(collection), client, nil
}
