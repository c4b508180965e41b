package speech

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// runner owns the single in-flight utterance of an engine. Starting a new
// one cancels the previous.
type runner struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (r *runner) start(fn func(ctx context.Context) error, done func(error)) {
	ctx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	r.mu.Unlock()

	go func() {
		defer cancel()
		err := fn(ctx)
		if ctx.Err() != nil {
			err = ErrCanceled
		}
		if done != nil {
			done(err)
		}
	}()
}

func (r *runner) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// synthesizeAndPlay plays the cached audio for key, synthesizing and caching
// it first on a miss. cache may be nil.
func synthesizeAndPlay(
	ctx context.Context,
	engine, key string,
	cache Cache,
	player Player,
	volume float64,
	synthesize func(context.Context) ([]byte, error),
) error {
	var pcm []byte
	var ok bool
	if cache != nil {
		pcm, ok = cache.Get(key)
	}
	if !ok {
		start := time.Now()
		var err error
		pcm, err = synthesize(ctx)
		if err != nil {
			return err
		}
		log.Debug("Synthesis completed", "engine", engine, "bytes", len(pcm), "duration", time.Since(start))
		if cache != nil {
			if err := cache.Put(key, pcm); err != nil {
				log.Debug("Could not cache utterance", "error", err)
			}
		}
	}
	return player.Play(ctx, pcm, volume)
}
