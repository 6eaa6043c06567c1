package encode

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/ports"
)

// Artifact is an encoded image ready to be handed out.
type Artifact struct {
	Data   []byte
	Format ports.ImageFormat
}

// Strategy turns an artifact into a RenderResult.
type Strategy interface {
	Encode(ctx context.Context, a Artifact) (pipeline.RenderResult, error)
}

// Persist writes the artifact to an ImageStore and returns its URL.
type Persist struct {
	store ports.ImageStore
	now   func() time.Time
	newID func() string
}

// NewPersist creates the persist strategy.
func NewPersist(store ports.ImageStore) *Persist {
	return &Persist{store: store, now: time.Now, newID: uuid.NewString}
}

// Encode implements Strategy.
func (p *Persist) Encode(ctx context.Context, a Artifact) (pipeline.RenderResult, error) {
	name := FileName(p.now(), p.newID(), a.Format)
	url, err := p.store.Put(ctx, name, a.Data, a.Format.ContentType())
	if err != nil {
		return pipeline.RenderResult{}, fmt.Errorf("store %s: %w", name, err)
	}
	return pipeline.RenderResult{Kind: pipeline.KindURL, Value: url}, nil
}

// FileName builds "poster-<unix millis>-<8 chars of id><ext>".
// The millisecond prefix keeps names time-ordered; the id suffix keeps
// concurrent renders from colliding.
func FileName(t time.Time, id string, format ports.ImageFormat) string {
	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("poster-%d-%s%s", t.UnixMilli(), suffix, format.Ext())
}

// Inline returns the artifact as a data URI. It needs no filesystem.
type Inline struct{}

// NewInline creates the inline strategy.
func NewInline() *Inline {
	return &Inline{}
}

// Encode implements Strategy.
func (Inline) Encode(ctx context.Context, a Artifact) (pipeline.RenderResult, error) {
	return pipeline.RenderResult{
		Kind:  pipeline.KindInlineData,
		Value: "data:" + a.Format.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(a.Data),
	}, nil
}

var (
	_ Strategy = (*Persist)(nil)
	_ Strategy = Inline{}
)
