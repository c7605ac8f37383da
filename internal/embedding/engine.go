// Package embedding maps text to dense sentence vectors through an
// OpenAI-compatible /v1/embeddings server and exposes cosine similarity
// over the results.
//
// The engine is configured with an ordered list of compute backends,
// typically an accelerator-backed endpoint first and a CPU endpoint last.
// Initialize probes them in order and binds the first one that answers, so
// the accelerator-or-CPU decision is made exactly once at startup rather
// than per call.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/cv-analyzer/internal/logger"
)

// ErrUnavailable is returned by Encode when no backend could be initialized
// or Initialize was never called.
var ErrUnavailable = errors.New("embedding engine not initialized")

// DefaultTimeout is the per-request HTTP timeout.
const DefaultTimeout = 30 * time.Second

// Backend identifies one embedding server endpoint.
type Backend struct {
	// Name labels the compute device behind the endpoint, e.g. "cuda", "cpu".
	Name string `json:"name"`
	// Endpoint is the server base URL, e.g. "http://localhost:8003".
	Endpoint string `json:"endpoint"`
}

// Config configures an Engine.
type Config struct {
	// Model is the embedding model name sent with every request.
	Model string `json:"model"`
	// Backends is consulted in order during Initialize; list the preferred
	// (accelerator) endpoint first and the CPU endpoint last.
	Backends []Backend `json:"backends"`
	// Timeout per HTTP request. Defaults to DefaultTimeout.
	Timeout time.Duration `json:"-"`
	Logger  *zap.Logger   `json:"-"`
}

// Engine encodes text into fixed-dimension vectors. Create it with New,
// then call Initialize once before use; Encode fails with ErrUnavailable
// until initialization succeeds.
type Engine struct {
	model   string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger

	backends []Backend

	// sem serializes forward passes: the backing server owns one compute
	// device, and interleaved requests would contend for its memory.
	sem *semaphore.Weighted

	mu      sync.RWMutex
	active  *Backend
	dim     int
	httpURL string
}

// New creates an Engine. It performs no I/O; call Initialize to bind a
// backend.
func New(cfg Config) *Engine {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{
		model:    cfg.Model,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.OrNop(cfg.Logger),
		backends: cfg.Backends,
		sem:      semaphore.NewWeighted(1),
	}
}

// Initialize probes the configured backends in order and binds the first
// one that successfully answers a warmup request. It blocks until a backend
// is bound or every candidate has failed.
func (e *Engine) Initialize(ctx context.Context) error {
	if len(e.backends) == 0 {
		return fmt.Errorf("no embedding backends configured")
	}

	var lastErr error
	for i := range e.backends {
		backend := e.backends[i]
		e.logger.Info("probing embedding backend",
			zap.String("backend", backend.Name),
			zap.String("endpoint", backend.Endpoint))

		vec, err := e.callBackend(ctx, backend.Endpoint, []string{"warmup"})
		if err != nil {
			e.logger.Warn("embedding backend unavailable",
				zap.String("backend", backend.Name),
				zap.Error(err))
			lastErr = err
			continue
		}

		e.mu.Lock()
		e.active = &backend
		e.httpURL = strings.TrimRight(backend.Endpoint, "/") + "/v1/embeddings"
		if len(vec) > 0 {
			e.dim = len(vec[0])
		}
		e.mu.Unlock()

		e.logger.Info("embedding backend ready",
			zap.String("backend", backend.Name),
			zap.Int("dimension", e.Dimension()))
		return nil
	}

	return fmt.Errorf("all embedding backends failed: %w", lastErr)
}

// Available reports whether a backend is bound and Encode can be called.
func (e *Engine) Available() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active != nil
}

// ActiveBackend returns the name of the bound backend, or "" when
// uninitialized.
func (e *Engine) ActiveBackend() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.active == nil {
		return ""
	}
	return e.active.Name
}

// Dimension returns the vector dimension observed during initialization.
func (e *Engine) Dimension() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dim
}

// Encode maps one text to its embedding vector. Concurrent calls are
// serialized so only one forward pass runs against the device at a time.
func (e *Engine) Encode(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EncodeBatch maps several texts to their embedding vectors in one request.
func (e *Engine) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.RLock()
	url := e.httpURL
	initialized := e.active != nil
	e.mu.RUnlock()

	if !initialized {
		return nil, ErrUnavailable
	}
	if len(texts) == 0 {
		return nil, nil
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquiring device slot: %w", err)
	}
	defer e.sem.Release(1)

	return e.post(ctx, url, texts)
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

// callBackend performs one un-serialized request against an arbitrary
// endpoint; Initialize uses it for probing.
func (e *Engine) callBackend(ctx context.Context, endpoint string, texts []string) ([][]float32, error) {
	url := strings.TrimRight(endpoint, "/") + "/v1/embeddings"
	return e.post(ctx, url, texts)
}

func (e *Engine) post(ctx context.Context, url string, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP POST %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, string(respBody))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned from %s", url)
	}

	// Reassemble in input order; the server may return entries sorted by index.
	vecs := make([][]float32, len(texts))
	for _, d := range result.Data {
		if d.Index >= 0 && d.Index < len(vecs) {
			vecs[d.Index] = d.Embedding
		}
	}
	for i, v := range vecs {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for input index %d", i)
		}
	}
	return vecs, nil
}
