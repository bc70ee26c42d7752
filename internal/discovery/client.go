// Package discovery wraps the two generative-AI calls of the directory:
// discover proposes listings for a category, summarize writes a short blurb
// for one listing.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/logger"
	"github.com/sohamroyc/Api-directory/internal/metrics"
)

// Defaults applied by New when Options leaves them empty.
const (
	DefaultModel = "gemini-3-flash-preview"
	DefaultCount = 10

	// SourceSearch tags listings proposed by the model.
	SourceSearch = "Google Search"
	// UnnamedSource titles a grounding citation without a title.
	UnnamedSource = "External Source"
)

// Generator is the provider surface used by the client. *genai.Models
// satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options tune the discover request.
type Options struct {
	Model          string
	Count          int
	SearchGrounded bool
}

// Result is the outcome of one discover call.
type Result struct {
	Listings []domain.ApiListing
	Sources  []domain.DiscoverySource
}

// Client issues discover and summarize calls. A Client without a Generator
// fails every discover with domain.ErrDiscoveryUnavailable and summarizes
// by returning the description.
type Client struct {
	gen     Generator
	opts    Options
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewGemini builds a Gemini API backed Generator.
func NewGemini(ctx context.Context, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, domain.ErrDiscoveryUnavailable
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client.Models, nil
}

// New creates a Client. A nil gen leaves discovery unconfigured.
func New(gen Generator, opts Options, log logger.Logger, m *metrics.Metrics) *Client {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Count <= 0 {
		opts.Count = DefaultCount
	}
	return &Client{gen: gen, opts: opts, log: log, metrics: m, now: time.Now}
}

// Configured reports whether a provider is wired.
func (c *Client) Configured() bool {
	return c != nil && c.gen != nil
}

// Model returns the provider model name.
func (c *Client) Model() string { return c.opts.Model }

type discoverPayload struct {
	APIs []struct {
		Name         string `json:"name"`
		Website      string `json:"website"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		AuthRequired bool   `json:"auth_required"`
		Source       string `json:"source"`
	} `json:"apis"`
}

// Discover asks the provider for listings in category. The listings get
// ids of the form <unix-millis>-<index> and the call time as CreatedAt.
// Any failure fails the whole call with a *domain.DiscoveryError; a
// response without grounding yields no sources.
func (c *Client) Discover(ctx context.Context, category string) (Result, error) {
	if !c.Configured() {
		return Result{}, domain.ErrDiscoveryUnavailable
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}
	if c.opts.SearchGrounded {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	start := c.now()
	resp, err := c.gen.GenerateContent(ctx, c.opts.Model, genai.Text(discoverPrompt(category, c.opts.Count)), config)
	if err != nil {
		return Result{}, &domain.DiscoveryError{Category: category, Op: "generate", Err: err}
	}

	document := []byte(responseText(resp))
	if !json.Valid(document) {
		return Result{}, &domain.DiscoveryError{Category: category, Op: "decode", Err: errors.New("response is not valid JSON")}
	}
	if violations, err := validate(document); err != nil {
		if errors.Is(err, ErrSchemaViolation) {
			err = fmt.Errorf("%w: %s", err, strings.Join(violations, "; "))
		}
		return Result{}, &domain.DiscoveryError{Category: category, Op: "validate", Err: err}
	}

	var payload discoverPayload
	if err := json.Unmarshal(document, &payload); err != nil {
		return Result{}, &domain.DiscoveryError{Category: category, Op: "decode", Err: err}
	}

	now := c.now()
	listings := make([]domain.ApiListing, len(payload.APIs))
	for i, a := range payload.APIs {
		listings[i] = domain.ApiListing{
			ID:           fmt.Sprintf("%d-%d", now.UnixMilli(), i),
			Name:         a.Name,
			Website:      a.Website,
			Description:  a.Description,
			Category:     domain.NormalizeCategory(a.Category),
			AuthRequired: a.AuthRequired,
			Source:       a.Source,
			CreatedAt:    now,
		}
	}

	result := Result{Listings: listings, Sources: groundingSources(resp)}
	c.log.Info("discovery completed",
		logger.String("category", category),
		logger.Int("listings", len(result.Listings)),
		logger.Int("sources", len(result.Sources)),
		logger.Duration("took", now.Sub(start)),
	)
	return result, nil
}

// Summarize returns a short summary of a listing. It never fails: on any
// provider error, or an empty answer, the description is returned as is.
func (c *Client) Summarize(ctx context.Context, name, description string) string {
	if !c.Configured() {
		c.metrics.Summary(metrics.ResultFallback)
		return description
	}

	resp, err := c.gen.GenerateContent(ctx, c.opts.Model, genai.Text(summarizePrompt(name, description)), nil)
	if err != nil {
		c.log.Warn("summarization failed, keeping description", logger.String("name", name), logger.Error(err))
		c.metrics.Summary(metrics.ResultFallback)
		return description
	}

	summary := responseText(resp)
	if summary == "" {
		c.log.Warn("summarization returned no text, keeping description", logger.String("name", name))
		c.metrics.Summary(metrics.ResultFallback)
		return description
	}

	c.metrics.Summary(metrics.ResultOK)
	return summary
}

// responseText joins the text parts of the first candidate, trimmed.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// groundingSources maps the first candidate's grounding chunks to citations.
func groundingSources(resp *genai.GenerateContentResponse) []domain.DiscoverySource {
	sources := make([]domain.DiscoverySource, 0)
	if resp == nil || len(resp.Candidates) == 0 {
		return sources
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return sources
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil {
			continue
		}
		src := domain.DiscoverySource{Title: UnnamedSource}
		if chunk.Web != nil {
			if chunk.Web.Title != "" {
				src.Title = chunk.Web.Title
			}
			src.URI = chunk.Web.URI
		}
		sources = append(sources, src)
	}
	return sources
}
