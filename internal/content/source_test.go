package content

import (
	"context"
	"errors"
	"testing"
)

func TestStaticSourceResolve(t *testing.T) {
	src := StaticSource{"doc-1": {Width: 1200, Height: 2400}}

	d, err := src.Resolve(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if d.Width != 1200 || d.Height != 2400 {
		t.Fatalf("unexpected dimensions %+v", d)
	}

	if _, err := src.Resolve(context.Background(), "missing"); !errors.Is(err, ErrContentLoad) {
		t.Fatalf("expected ErrContentLoad, got %v", err)
	}
}

func TestStaticDocumentSourceLayout(t *testing.T) {
	src := StaticDocumentSource{"doc-1": {PageHeights: []int{100, 200}, ContentWidth: 500, PageGap: 10, Padding: 20}}

	l, err := src.Layout(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	if len(l.PageHeights) != 2 || l.ContentWidth != 500 {
		t.Fatalf("unexpected layout %+v", l)
	}

	if _, err := src.Layout(context.Background(), "missing"); !errors.Is(err, ErrContentLoad) {
		t.Fatalf("expected ErrContentLoad, got %v", err)
	}
}

func TestAwaitDimensionsSucceedsMidway(t *testing.T) {
	policy := RetryPolicy{Attempts: 5, Delay: 0, Fallback: Dimensions{Width: 100, Height: 100}}

	calls := 0
	d, ok := AwaitDimensions(policy, func() (Dimensions, bool) {
		calls++
		if calls == 3 {
			return Dimensions{Width: 640, Height: 480}, true
		}
		return Dimensions{}, false
	})

	if !ok || d.Width != 640 {
		t.Fatalf("expected success on third probe, got %+v ok=%v", d, ok)
	}
	if calls != 3 {
		t.Fatalf("probing should stop once dimensions arrive, got %d calls", calls)
	}
}

func TestAwaitDimensionsFallsBack(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, Delay: 0, Fallback: Dimensions{Width: 100, Height: 100}}

	calls := 0
	d, ok := AwaitDimensions(policy, func() (Dimensions, bool) {
		calls++
		return Dimensions{}, false
	})

	if ok {
		t.Fatalf("exhausted probes must report failure")
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}
	if d != policy.Fallback {
		t.Fatalf("expected the fallback size, got %+v", d)
	}
}
