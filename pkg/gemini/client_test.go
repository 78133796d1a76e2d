package gemini

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	genai "github.com/google/generative-ai-go/genai"
)

// newTestClients wires the registry to fakes: every construction returns a
// fresh handle and bumps the counter, listings come from the given slice.
func newTestClients(ttl time.Duration, models []string, constructions, listings *int32) *Clients {
	c := NewClients(ttl)
	c.NewClient = func(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
		atomic.AddInt32(constructions, 1)
		return &genai.Client{}, nil
	}
	c.ListRaw = func(ctx context.Context, client *genai.Client) ([]string, error) {
		atomic.AddInt32(listings, 1)
		return append([]string(nil), models...), nil
	}
	c.CloseClient = func(client *genai.Client) error { return nil }
	return c
}

func TestGetOrCreate_MemoizesPerTuple(t *testing.T) {
	var constructions, listings int32
	c := newTestClients(time.Minute, nil, &constructions, &listings)
	ctx := context.Background()

	first, err := c.GetOrCreate(ctx, "key-a", "https://example.googleapis.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.GetOrCreate(ctx, "key-a", "https://example.googleapis.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatal("identical tuples must return the same client")
	}
	if got := atomic.LoadInt32(&constructions); got != 1 {
		t.Fatalf("expected 1 construction, got %d", got)
	}

	other, err := c.GetOrCreate(ctx, "key-b", "https://example.googleapis.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other == first {
		t.Fatal("distinct tuples must get distinct clients")
	}
	if got := atomic.LoadInt32(&constructions); got != 2 {
		t.Fatalf("expected 2 constructions, got %d", got)
	}
}

func TestGetOrCreate_SingleFlightUnderRace(t *testing.T) {
	var constructions, listings int32
	c := newTestClients(time.Minute, nil, &constructions, &listings)

	var wg sync.WaitGroup
	clients := make([]*genai.Client, 16)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client, err := c.GetOrCreate(context.Background(), "racy-key", "")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			clients[i] = client
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&constructions); got != 1 {
		t.Fatalf("expected exactly 1 construction under race, got %d", got)
	}
	for i := 1; i < len(clients); i++ {
		if clients[i] != clients[0] {
			t.Fatal("racing callers must converge on one client")
		}
	}
}

func TestListModels_CachesRawListing(t *testing.T) {
	var constructions, listings int32
	c := newTestClients(time.Minute, []string{"gemini-2.0-flash", "gemini-2.5-pro"}, &constructions, &listings)
	ctx := context.Background()

	got, err := c.ListModels(ctx, "k", "", []string{"*"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"gemini-2.0-flash", "gemini-2.5-pro"}) {
		t.Fatalf("unexpected models: %v", got)
	}

	if _, err := c.ListModels(ctx, "k", "", []string{"*"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&listings); got != 1 {
		t.Fatalf("expected 1 provider query, got %d", got)
	}
}

func TestListModels_FilterChangesApplyWithoutInvalidation(t *testing.T) {
	var constructions, listings int32
	c := newTestClients(time.Minute, []string{"gemini-2.0-flash", "gemini-2.5-pro"}, &constructions, &listings)
	ctx := context.Background()

	if _, err := c.ListModels(ctx, "k", "", []string{"*"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Narrower whitelist against the already-cached raw listing.
	got, err := c.ListModels(ctx, "k", "", []string{"*pro*"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"gemini-2.5-pro"}) {
		t.Fatalf("expected filter change to apply, got %v", got)
	}
	if got := atomic.LoadInt32(&listings); got != 1 {
		t.Fatalf("filter change must not trigger a provider query, got %d", got)
	}
}

func TestListModels_TTLExpiryRefreshes(t *testing.T) {
	var constructions, listings int32
	c := newTestClients(10*time.Millisecond, []string{"gemini-2.0-flash"}, &constructions, &listings)
	ctx := context.Background()

	if _, err := c.ListModels(ctx, "k", "", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := c.ListModels(ctx, "k", "", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&listings); got != 2 {
		t.Fatalf("expected refresh after TTL, got %d queries", got)
	}
}

func TestInvalidate_ForcesReconstruction(t *testing.T) {
	var constructions, listings int32
	c := newTestClients(time.Minute, []string{"gemini-2.0-flash"}, &constructions, &listings)
	ctx := context.Background()

	first, _ := c.GetOrCreate(ctx, "k", "")
	if _, err := c.ListModels(ctx, "k", "", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Invalidate()

	second, _ := c.GetOrCreate(ctx, "k", "")
	if first == second {
		t.Fatal("expected a fresh client after Invalidate")
	}
	if _, err := c.ListModels(ctx, "k", "", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&listings); got != 2 {
		t.Fatalf("expected fresh listing after Invalidate, got %d queries", got)
	}
}
