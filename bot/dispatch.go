package bot

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"
)

const shardBuffer = 64

// Dispatch hands events to h on up to workers goroutines. Each user is pinned
// to one worker, so a user's events are handled one at a time in arrival
// order while different users proceed in parallel. It returns once events is
// closed or ctx is done and the events already queued have been handled.
func Dispatch(ctx context.Context, events <-chan Event, h Handler, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	handlerCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	shards := make([]chan Event, workers)
	for i := range shards {
		ch := make(chan Event, shardBuffer)
		shards[i] = ch
		g.Go(func() error {
			for ev := range ch {
				handleSafely(handlerCtx, h, ev)
			}
			return nil
		})
	}

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case ev, ok := <-events:
			if !ok {
				break loop
			}
			select {
			case shards[shardFor(ev.UserID, workers)] <- ev:
			case <-ctx.Done():
				break loop
			}
		}
	}

	for _, ch := range shards {
		close(ch)
	}
	return g.Wait()
}

func shardFor(userID int64, workers int) int {
	return int(uint64(userID) % uint64(workers))
}

func handleSafely(ctx context.Context, h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[BOT] handler panic user=%d: %v", ev.UserID, r)
		}
	}()
	h.Handle(ctx, ev)
}
