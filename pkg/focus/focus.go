// Package focus produces "the user is back" events for the session to
// re-hydrate on.
package focus

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Signals emits whenever the process receives SIGCONT, which the shell
// sends when a suspended job is brought back to the foreground.
func Signals(ctx context.Context) <-chan struct{} {
	return notify(ctx, syscall.SIGCONT)
}

func notify(ctx context.Context, sigs ...os.Signal) <-chan struct{} {
	out := make(chan struct{}, 1)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, sigs...)

	go func() {
		defer close(out)
		defer signal.Stop(sigCh)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
				emit(out)
			}
		}
	}()
	return out
}

// Every emits once per interval. A non-positive interval yields a channel
// that closes when ctx is done and never fires.
func Every(ctx context.Context, d time.Duration) <-chan struct{} {
	out := make(chan struct{}, 1)
	if d <= 0 {
		go func() {
			<-ctx.Done()
			close(out)
		}()
		return out
	}

	go func() {
		defer close(out)
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				emit(out)
			}
		}
	}()
	return out
}

// Merge fans sources into one channel that closes once all of them have.
func Merge(sources ...<-chan struct{}) <-chan struct{} {
	out := make(chan struct{}, 1)
	var wg sync.WaitGroup
	wg.Add(len(sources))
	for _, src := range sources {
		go func(src <-chan struct{}) {
			defer wg.Done()
			for range src {
				emit(out)
			}
		}(src)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// emit coalesces: if an event is already pending, another adds nothing.
func emit(out chan<- struct{}) {
	select {
	case out <- struct{}{}:
	default:
	}
}
