package loader

import (
	"PBRShowcase/internal/logger"
	"PBRShowcase/internal/renderer"
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// State of an asynchronous load.
type State int32

const (
	Pending State = iota
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Handlers receive the outcome of a request. OnLoad and OnError run on the
// goroutine calling Poll; OnProgress runs on the loading goroutine.
type Handlers struct {
	OnLoad     func(model *renderer.Model)
	OnProgress func(fraction float64)
	OnError    func(err error)
}

// LoadFunc produces a model, honouring ctx cancellation.
type LoadFunc func(ctx context.Context, progress func(float64)) (*renderer.Model, error)

// Request is a single asynchronous load. It is never retried.
type Request struct {
	Name     string
	handlers Handlers

	state     atomic.Int32
	done      chan struct{}
	mu        sync.Mutex
	model     *renderer.Model
	err       error
	delivered bool
}

// Load starts reading path in the background.
func Load(ctx context.Context, path string, opts Options, h Handlers) *Request {
	return Start(ctx, path, func(ctx context.Context, progress func(float64)) (*renderer.Model, error) {
		return loadFile(ctx, path, opts, progress)
	}, h)
}

// Start runs fn in the background as a request called name.
func Start(ctx context.Context, name string, fn LoadFunc, h Handlers) *Request {
	r := &Request{Name: name, handlers: h, done: make(chan struct{})}
	go r.run(ctx, fn)
	return r
}

func (r *Request) run(ctx context.Context, fn LoadFunc) {
	progress := func(f float64) {
		if r.handlers.OnProgress != nil {
			r.handlers.OnProgress(f)
		}
	}
	model, err := fn(ctx, progress)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	r.mu.Lock()
	if err != nil {
		r.err = err
		r.state.Store(int32(Failed))
	} else {
		r.model = model
		r.state.Store(int32(Loaded))
	}
	r.mu.Unlock()
	close(r.done)
}

func (r *Request) State() State {
	return State(r.state.Load())
}

// Done is closed once the request leaves the pending state.
func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the request completes or ctx ends.
func (r *Request) Wait(ctx context.Context) (*renderer.Model, error) {
	select {
	case <-r.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.model, r.err
}

// Poll delivers a finished request to its handlers. Handlers fire exactly
// once; Poll reports whether it delivered anything.
func (r *Request) Poll() bool {
	select {
	case <-r.done:
	default:
		return false
	}

	r.mu.Lock()
	if r.delivered {
		r.mu.Unlock()
		return false
	}
	r.delivered = true
	model, err := r.model, r.err
	r.mu.Unlock()

	if err != nil {
		if r.handlers.OnError != nil {
			r.handlers.OnError(err)
		}
		return true
	}
	if r.handlers.OnLoad != nil {
		r.handlers.OnLoad(model)
	}
	return true
}

// Delivered reports whether Poll has handed the result over.
func (r *Request) Delivered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delivered
}

func loadFile(ctx context.Context, path string, opts Options, progress func(float64)) (*renderer.Model, error) {
	if err := checkFormat(path); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var total int64
	if info, err := file.Stat(); err == nil {
		total = info.Size()
	}
	logger.Log.Debug("Model load started", zap.String("path", path), zap.Int64("bytes", total))

	pr := &progressReader{ctx: ctx, r: file, total: total, report: progress}
	model, err := decode(pr, path, opts)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	progress(1)
	return model, nil
}

// progressReader reports the fraction of bytes consumed and stops reading
// once ctx is done.
type progressReader struct {
	ctx    context.Context
	r      io.Reader
	read   int64
	total  int64
	report func(float64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.r.Read(b)
	p.read += int64(n)
	if n > 0 && p.total > 0 {
		p.report(min(float64(p.read)/float64(p.total), 1))
	}
	return n, err
}
