// Package display answers "how big is the screen" for geometry scaling.
package display

import (
	"context"
	"fmt"
)

// Resolution is a screen size in pixels.
type Resolution struct {
	Width, Height int
}

func (r Resolution) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Source queries the platform for the panel resolution.
type Source interface {
	Resolution(ctx context.Context) (Resolution, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Resolution, error)

func (f SourceFunc) Resolution(ctx context.Context) (Resolution, error) {
	return f(ctx)
}

// Result is the outcome of a detection. Err is set when Fallback was used.
type Result struct {
	Resolution Resolution
	Fallback   bool
	Err        error
}

// Detect asks src for the resolution and uses the window size from fallback
// when the query fails or returns nonsense.
func Detect(ctx context.Context, src Source, fallback func() Resolution) Result {
	res, err := src.Resolution(ctx)
	if err == nil && !res.Valid() {
		err = fmt.Errorf("invalid resolution %s", res)
	}
	if err != nil {
		return Result{Resolution: fallback(), Fallback: true, Err: err}
	}
	return Result{Resolution: res}
}

// DetectAsync runs Detect on its own goroutine and hands the result to done
// through post, so done runs on the host loop.
func DetectAsync(ctx context.Context, src Source, fallback func() Resolution, post func(func()), done func(Result)) {
	go func() {
		r := Detect(ctx, src, fallback)
		post(func() { done(r) })
	}()
}
