// Command manifold converts a chat transcript into Gemini request contents
// and prints the filtered model list for the configured credentials. The
// outbound generation call itself is left to the consumer.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	genai "github.com/google/generative-ai-go/genai"

	"github.com/openmanifold/manifold/pkg/config"
	"github.com/openmanifold/manifold/pkg/content"
	"github.com/openmanifold/manifold/pkg/files"
	"github.com/openmanifold/manifold/pkg/gemini"
)

type transcript struct {
	Messages []content.Message `json:"messages"`
	Records  []content.Record  `json:"records,omitempty"`
}

type partView struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	URI  string `json:"uri,omitempty"`
	MIME string `json:"mime,omitempty"`
	Size int    `json:"size,omitempty"`
}

type blockView struct {
	Role  string     `json:"role"`
	Parts []partView `json:"parts"`
}

func main() {
	var (
		input      = flag.String("input", "", "path to a transcript JSON file ({\"messages\": [...], \"records\": [...]})")
		filesDir   = flag.String("files-dir", "", "serve attachments from this directory")
		pgConn     = flag.String("postgres", "", "serve attachments from this Postgres connection string")
		mongoURI   = flag.String("mongo", "", "serve attachments from this MongoDB URI (database/collection: manifold/files)")
		listOnly   = flag.Bool("list-models", false, "only print the filtered model list")
		timeoutArg = flag.Duration("timeout", 2*time.Minute, "overall deadline")
	)
	flag.Parse()

	valves := config.FromEnv()
	if valves.APIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutArg)
	defer cancel()

	clients := gemini.NewClients(valves.ModelCacheTTL)
	defer clients.Invalidate()

	models, err := clients.ListModels(ctx, valves.APIKey, valves.BaseURL, valves.ModelWhitelist, valves.ModelBlacklist)
	if err != nil {
		log.Fatalf("list models: %v", err)
	}
	log.Printf("models available: %v", models)
	if *listOnly {
		return
	}
	if *input == "" {
		log.Fatal("-input is required unless -list-models is set")
	}

	store, closeStore, err := openStore(ctx, *filesDir, *pgConn, *mongoURI)
	if err != nil {
		log.Fatalf("open file store: %v", err)
	}
	defer closeStore()

	client, err := clients.GetOrCreate(ctx, valves.APIKey, valves.BaseURL)
	if err != nil {
		log.Fatalf("gemini client: %v", err)
	}

	assembler := &content.Assembler{
		Resolver: &files.Resolver{
			Store:         store,
			Uploader:      &files.GeminiUploader{Client: client},
			AllowUpload:   valves.UseFilesAPI,
			SizeThreshold: valves.UploadThreshold,
		},
		Sink: func(ev content.Event) { log.Print(ev.Description) },
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("read transcript: %v", err)
	}
	var tr transcript
	if err := json.Unmarshal(raw, &tr); err != nil {
		log.Fatalf("parse transcript: %v", err)
	}

	contents, err := assembler.Assemble(ctx, tr.Messages, tr.Records)
	if err != nil {
		log.Fatalf("assemble: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summarize(contents)); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}

func openStore(ctx context.Context, dir, pgConn, mongoURI string) (files.Store, func(), error) {
	switch {
	case pgConn != "":
		ps, err := files.NewPostgresStore(ctx, pgConn)
		if err != nil {
			return nil, nil, err
		}
		return ps, ps.Close, nil
	case mongoURI != "":
		ms, err := files.NewMongoStore(ctx, mongoURI, "manifold", "files")
		if err != nil {
			return nil, nil, err
		}
		return ms, func() { _ = ms.Close() }, nil
	case dir != "":
		return files.FSStore{BaseDir: dir}, func() {}, nil
	default:
		return emptyStore{}, func() {}, nil
	}
}

// emptyStore backs transcripts that carry no attachments.
type emptyStore struct{}

func (emptyStore) Get(ctx context.Context, id string) ([]byte, string, error) {
	return nil, "", fmt.Errorf("%q: %w", id, files.ErrNotFound)
}

func summarize(contents []*genai.Content) []blockView {
	out := make([]blockView, 0, len(contents))
	for _, c := range contents {
		view := blockView{Role: c.Role, Parts: make([]partView, 0, len(c.Parts))}
		for _, p := range c.Parts {
			switch v := p.(type) {
			case genai.Text:
				view.Parts = append(view.Parts, partView{Kind: "text", Text: string(v)})
			case genai.FileData:
				view.Parts = append(view.Parts, partView{Kind: "file", URI: v.URI, MIME: v.MIMEType})
			case genai.Blob:
				view.Parts = append(view.Parts, partView{Kind: "blob", MIME: v.MIMEType, Size: len(v.Data)})
			default:
				view.Parts = append(view.Parts, partView{Kind: fmt.Sprintf("%T", p)})
			}
		}
		out = append(out, view)
	}
	return out
}
