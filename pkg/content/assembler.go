package content

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"

	"github.com/openmanifold/manifold/pkg/concurrent"
	"github.com/openmanifold/manifold/pkg/files"
)

// Assembler converts a conversation into the ordered genai content
// representation. Attachments resolve through the Resolver; recognized media
// links in message text become file-data parts in source order.
type Assembler struct {
	Resolver *files.Resolver
	Sink     ProgressSink
	// MaxConcurrency bounds how many messages resolve attachments at once.
	// Zero means a small default. Output order always matches input order.
	MaxConcurrency int
}

// Assemble builds one content block per message. Records, when present, are
// matched to messages by position; a record's attachments produce the leading
// parts of its block. Any resolution or upload failure aborts the whole
// conversation rather than silently misrepresenting it.
func (a *Assembler) Assemble(ctx context.Context, msgs []Message, records []Record) ([]*genai.Content, error) {
	return concurrent.MapOrdered(ctx, msgs, a.MaxConcurrency, func(i int, msg Message) (*genai.Content, error) {
		var rec *Record
		if i < len(records) {
			rec = &records[i]
		}
		return a.assembleMessage(ctx, msg, rec)
	})
}

func (a *Assembler) assembleMessage(ctx context.Context, msg Message, rec *Record) (*genai.Content, error) {
	var parts []genai.Part

	if rec != nil {
		for _, att := range rec.Files {
			a.notify(Event{Description: fmt.Sprintf("Processing attachment %s", attachmentLabel(att))})
			part, err := a.Resolver.ResolvePart(ctx, att)
			if err != nil {
				a.notify(Event{Description: fmt.Sprintf("Attachment %s failed: %v", attachmentLabel(att), err), Done: true})
				return nil, err
			}
			parts = append(parts, part)
		}
	}

	parts = append(parts, segmentText(msg.Content)...)

	return &genai.Content{Role: msg.Role, Parts: parts}, nil
}

// segmentText splits message text around recognized media links. Text on
// either side of a link is trimmed and dropped when empty, so adjacent links
// never produce empty text parts. Text with no links becomes a single part.
func segmentText(text string) []genai.Part {
	var parts []genai.Part
	rest := text
	for {
		loc := findMediaRef(rest)
		if loc == nil {
			break
		}
		if before := strings.TrimSpace(rest[:loc[0]]); before != "" {
			parts = append(parts, genai.Text(before))
		}
		parts = append(parts, genai.FileData{URI: rest[loc[0]:loc[1]]})
		rest = rest[loc[1]:]
	}
	if tail := strings.TrimSpace(rest); tail != "" {
		parts = append(parts, genai.Text(tail))
	}
	return parts
}

func attachmentLabel(att files.Attachment) string {
	if att.Name != "" {
		return att.Name
	}
	return att.ID
}

// notify forwards an event to the sink without ever gating assembly on it.
func (a *Assembler) notify(ev Event) {
	if a.Sink == nil {
		return
	}
	go func() {
		defer func() { _ = recover() }()
		a.Sink(ev)
	}()
}
