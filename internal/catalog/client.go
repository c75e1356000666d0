package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seqhub/preference-service/pkg/logger"
)

// Datatype is one entry of the external datatype registry
type Datatype struct {
	Extension   string `json:"extension"`
	Description string `json:"description,omitempty"`
}

// defaultDatatypes is served when no registry URL is configured, so a
// client can always render a selectable set in development.
var defaultDatatypes = []Datatype{
	{Extension: "bam", Description: "Binary sequence alignment map"},
	{Extension: "bed", Description: "Browser extensible data intervals"},
	{Extension: "fasta", Description: "Nucleotide or peptide sequences"},
	{Extension: "fastq", Description: "Sequences with quality scores"},
	{Extension: "gff3", Description: "Generic feature format v3"},
	{Extension: "sam", Description: "Sequence alignment map"},
	{Extension: "tabular", Description: "Tab separated values"},
	{Extension: "vcf", Description: "Variant call format"},
}

const cacheKey = "catalog:datatypes"

// Client reads the external datatype registry. The registry is a read-only
// collaborator: this service never validates favorites against it, it only
// proxies the selectable set for list views. Responses are cached in Redis
// when a client is configured; with a nil Redis client every call goes to
// the registry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	redis      *redis.Client
	cacheTTL   time.Duration
}

// NewClient creates a new catalog client
func NewClient(baseURL string, redisClient *redis.Client) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		redis:    redisClient,
		cacheTTL: 5 * time.Minute,
	}
}

// List returns the registry's datatype entries
func (c *Client) List(ctx context.Context) ([]Datatype, error) {
	if c.baseURL == "" {
		return defaultDatatypes, nil
	}

	if cached, ok := c.fromCache(ctx); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/datatypes", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach datatype registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("datatype registry returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry response: %w", err)
	}

	var datatypes []Datatype
	if err := json.Unmarshal(body, &datatypes); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}

	c.toCache(ctx, body)

	return datatypes, nil
}

func (c *Client) fromCache(ctx context.Context) ([]Datatype, bool) {
	if c.redis == nil {
		return nil, false
	}

	cached, err := c.redis.Get(ctx, cacheKey).Bytes()
	if err != nil || len(cached) == 0 {
		return nil, false
	}

	var datatypes []Datatype
	if err := json.Unmarshal(cached, &datatypes); err != nil {
		return nil, false
	}

	logger.Debug(ctx).Int("count", len(datatypes)).Msg("Catalog cache hit")
	return datatypes, true
}

func (c *Client) toCache(ctx context.Context, body []byte) {
	if c.redis == nil {
		return
	}

	if err := c.redis.Set(ctx, cacheKey, body, c.cacheTTL).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to cache catalog response")
	}
}
