package thumbs

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/local/pagedeck/internal/metrics"
)

// Request asks the pool to render one page of a source buffer ahead of time.
// SourceData is an immutable workspace buffer, safe to read concurrently.
type Request struct {
	PageRefID  string
	SourceData []byte
	PageIndex  int
	Rotation   int
}

// Pool pre-renders thumbnails in the background so the first preview fetch
// after an upload usually hits the cache. Render failures are logged and
// dropped; thumbnails never gate workspace correctness.
type Pool struct {
	renderer *Renderer
	cache    Cache
	ch       chan Request
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewPool returns a pool with the given worker count.
func NewPool(renderer *Renderer, cache Cache, workers int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		renderer: renderer,
		cache:    cache,
		ch:       make(chan Request, 256),
		ctx:      ctx,
		cancel:   cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Enqueue schedules a render. A full queue drops the request; the preview
// endpoint renders on demand anyway.
func (p *Pool) Enqueue(req Request) {
	select {
	case p.ch <- req:
	default:
		log.Debug().Str("page_ref", req.PageRefID).Msg("thumbnail queue full, dropping prefetch")
	}
}

// Stop cancels the workers and waits for in-flight renders to finish.
// Queued prefetches that have not started are abandoned.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case req := <-p.ch:
			p.handle(req)
		}
	}
}

func (p *Pool) handle(req Request) {
	key := CacheKey(req.PageRefID, req.Rotation)
	if _, ok, err := p.cache.Get(p.ctx, key); err == nil && ok {
		metrics.IncRender("hit")
		return
	}
	data, err := p.renderer.Render(req.SourceData, req.PageIndex, req.Rotation)
	if err != nil {
		metrics.IncRender("failed")
		log.Warn().Err(err).Str("page_ref", req.PageRefID).Int("page", req.PageIndex).Msg("thumbnail prefetch failed")
		return
	}
	if err := p.cache.Set(p.ctx, key, data); err != nil {
		log.Warn().Err(err).Str("page_ref", req.PageRefID).Msg("thumbnail cache store failed")
		return
	}
	metrics.IncRender("rendered")
}
