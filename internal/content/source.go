// Package content is the boundary to whatever supplies the shared background:
// a paginated document, an image, or nothing. The canvas core consumes only a
// final width/height and a ready-or-error signal; decoding, pagination and
// upload live entirely behind this boundary.
package content

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrContentLoad reports that a background asset failed to load. The caller
// falls back to the default canvas space and surfaces a placeholder.
var ErrContentLoad = errors.New("content failed to load")

// Dimensions is the natural size of a loaded asset, in canvas units.
type Dimensions struct {
	Width  int
	Height int
}

// Source resolves an opaque reference to the asset's final dimensions. It
// must return only once the size is final; partially decoded sizes diverge
// between peers and must never escape.
type Source interface {
	Resolve(ctx context.Context, ref string) (Dimensions, error)
}

// DocumentLayout describes a paginated document as reported by its renderer.
// The background coordinator turns this into one canonical canvas space.
type DocumentLayout struct {
	PageHeights  []int
	ContentWidth int
	PageGap      int
	Padding      int
}

// DocumentSource resolves a document reference to its pagination layout. It
// must return only once pagination is final, for the same reason Resolve must.
type DocumentSource interface {
	Layout(ctx context.Context, ref string) (DocumentLayout, error)
}

// RetryPolicy bounds the wait for externally reported dimensions. After
// Attempts probes spaced Delay apart the Fallback size is used.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	Fallback Dimensions
}

// DefaultRetryPolicy matches the original behaviour: a small number of
// attempts with a fixed delay.
func DefaultRetryPolicy(fallback Dimensions) RetryPolicy {
	return RetryPolicy{Attempts: 5, Delay: 200 * time.Millisecond, Fallback: fallback}
}

// AwaitDimensions probes until the dimensions are available or the policy is
// exhausted. The second result reports whether the probe succeeded; on false
// the fallback is returned.
func AwaitDimensions(policy RetryPolicy, probe func() (Dimensions, bool)) (Dimensions, bool) {
	for i := 0; i < policy.Attempts; i++ {
		if d, ok := probe(); ok {
			return d, true
		}
		if i < policy.Attempts-1 {
			time.Sleep(policy.Delay)
		}
	}
	return policy.Fallback, false
}

// StaticSource resolves references from a fixed table. Used in tests and by
// the demo binary; a real deployment plugs in the document/image loader here.
type StaticSource map[string]Dimensions

func (s StaticSource) Resolve(_ context.Context, ref string) (Dimensions, error) {
	d, ok := s[ref]
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: %s", ErrContentLoad, ref)
	}
	return d, nil
}

// StaticDocumentSource is the document counterpart of StaticSource.
type StaticDocumentSource map[string]DocumentLayout

func (s StaticDocumentSource) Layout(_ context.Context, ref string) (DocumentLayout, error) {
	l, ok := s[ref]
	if !ok {
		return DocumentLayout{}, fmt.Errorf("%w: %s", ErrContentLoad, ref)
	}
	return l, nil
}
