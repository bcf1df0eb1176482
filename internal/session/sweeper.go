package session

import (
	"context"
	"log"
	"time"
)

// RunSweeper calls Sweep on every tick until ctx is done.
func RunSweeper(ctx context.Context, s Store, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				log.Printf("session sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("session sweep: removed %d expired session(s)", n)
			}
		}
	}
}
