package report

import (
	"context"
	"time"
)

// Pipeline fetches a report and renders it. It knows nothing about how the
// text is delivered.
type Pipeline struct {
	fetcher Fetcher
	now     func() time.Time
}

func NewPipeline(fetcher Fetcher, now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{fetcher: fetcher, now: now}
}

// FetchAndRender returns the rendered report. An {error} payload renders as
// the error block with a nil error; a failed fetch returns the *FetchError
// for the caller to present with RenderFailure.
func (p *Pipeline) FetchAndRender(ctx context.Context, username, password string) (string, error) {
	r, err := p.fetcher.Fetch(ctx, username, password)
	if err != nil {
		return "", err
	}
	return Render(r, p.now()), nil
}
