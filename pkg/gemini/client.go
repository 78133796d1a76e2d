package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/openmanifold/manifold/pkg/cache"
)

const (
	defaultModelTTL      = 10 * time.Minute
	modelCacheCapacity   = 32
	methodGenerateContent = "generateContent"
)

// Clients memoizes genai client construction per (apiKey, baseURL) tuple and
// caches raw model listings per tuple with a TTL. Both caches live for the
// process unless Invalidate is called.
type Clients struct {
	mu      sync.Mutex
	clients map[string]*genai.Client
	models  *cache.TTLCache

	// Construction and listing are swappable for tests; defaults hit the
	// real API.
	NewClient   func(ctx context.Context, apiKey, baseURL string) (*genai.Client, error)
	ListRaw     func(ctx context.Context, client *genai.Client) ([]string, error)
	CloseClient func(client *genai.Client) error
}

// NewClients creates a client registry whose model listings expire after ttl.
// A non-positive ttl selects the default.
func NewClients(ttl time.Duration) *Clients {
	if ttl <= 0 {
		ttl = defaultModelTTL
	}
	return &Clients{
		clients:     make(map[string]*genai.Client),
		models:      cache.New(modelCacheCapacity, ttl),
		NewClient:   newClient,
		ListRaw:     listRaw,
		CloseClient: (*genai.Client).Close,
	}
}

// GetOrCreate returns the one live client for the credential tuple,
// constructing it on first use. Racing first callers converge on a single
// client: construction runs under the registry lock.
func (c *Clients) GetOrCreate(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	key := cache.Key(apiKey, baseURL)

	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[key]; ok {
		return client, nil
	}
	client, err := c.NewClient(ctx, apiKey, baseURL)
	if err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}
	c.clients[key] = client
	return client, nil
}

// ListModels returns the filtered model ids for the credential tuple. The raw
// listing is cached per tuple; whitelist/blacklist globs apply on every read,
// so filter changes take effect without invalidation. Blacklist wins.
func (c *Clients) ListModels(ctx context.Context, apiKey, baseURL string, whitelist, blacklist []string) ([]string, error) {
	key := cache.Key(apiKey, baseURL)

	var raw []string
	if v, ok := c.models.Get(key); ok {
		raw = v.([]string)
	} else {
		client, err := c.GetOrCreate(ctx, apiKey, baseURL)
		if err != nil {
			return nil, err
		}
		raw, err = c.ListRaw(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		c.models.Set(key, raw)
	}

	return filterModels(raw, whitelist, blacklist), nil
}

// Invalidate drops every cached client and model listing. Use on credential
// rotation or teardown.
func (c *Clients) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, client := range c.clients {
		if err := c.CloseClient(client); err != nil {
			log.Printf("gemini: closing cached client: %v", err)
		}
		delete(c.clients, key)
	}
	c.models.Clear()
}

func newClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithEndpoint(baseURL))
	}
	return genai.NewClient(ctx, opts...)
}

// listRaw queries the provider for models able to serve content generation,
// stripping the "models/" resource prefix.
func listRaw(ctx context.Context, client *genai.Client) ([]string, error) {
	var ids []string
	it := client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if !supportsGeneration(m) {
			continue
		}
		ids = append(ids, strings.TrimPrefix(m.Name, "models/"))
	}
	return ids, nil
}

func supportsGeneration(m *genai.ModelInfo) bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == methodGenerateContent {
			return true
		}
	}
	return false
}
