// Package worker is a message gateway over the CPU engine: requests and
// responses are JSON envelopes correlated by ID, processed strictly in
// submission order by a single consumer goroutine. It exists for hosts
// that talk to the engine over a pipe or message port rather than
// calling the pixel package directly.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopixel/phototune"
)

// ErrClosed is returned by Do and Submit after Close.
var ErrClosed = errors.New("worker: closed")

// OpType names one gateway operation.
type OpType string

const (
	OpAdjust         OpType = "adjust"
	OpFilter         OpType = "filter"
	OpTransform      OpType = "transform"
	OpLevels         OpType = "levels"
	OpCurves         OpType = "curves"
	OpHSL            OpType = "hsl"
	OpColorBalance   OpType = "color-balance"
	OpVibrance       OpType = "vibrance"
	OpNoiseReduction OpType = "noise-reduction"
	OpSharpen        OpType = "sharpen"
	OpBlur           OpType = "blur"
	OpHistogram      OpType = "histogram"
)

// Request is one unit of work. ID is opaque to the worker and echoed
// back in the matching Response.
type Request struct {
	ID      string          `json:"id"`
	Type    OpType          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ResponseType says whether a request succeeded.
type ResponseType string

const (
	ResponseSuccess ResponseType = "success"
	ResponseError   ResponseType = "error"
)

// Response carries the result of one Request. Exactly one of Data and
// Error is set; Duration is the processing time in milliseconds.
type Response struct {
	ID       string          `json:"id"`
	Type     ResponseType    `json:"type"`
	Data     json.RawMessage `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
	Duration float64         `json:"duration"`
}

// ImageData is the pixel payload shared by every image operation:
// row-major RGBA bytes, top-left origin. encoding/json transports the
// Pixels slice as base64.
type ImageData struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels []byte `json:"pixels"`
}

func (d ImageData) buffer() (*phototune.ImageBuffer, error) {
	return phototune.FromPix(d.Pixels, d.Width, d.Height)
}

func imageData(img *phototune.ImageBuffer) ImageData {
	return ImageData{Width: img.Width, Height: img.Height, Pixels: img.Pix}
}

type pending struct {
	req   Request
	reply chan Response
}

// Worker processes requests one at a time in FIFO order. A panic while
// handling a request becomes an error Response; the consumer goroutine
// keeps running.
type Worker struct {
	queue chan pending
	done  chan struct{}
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// Option configures a Worker.
type Option func(*config)

type config struct {
	queueSize int
}

// WithQueueSize bounds the number of requests waiting for the consumer.
// The default is 64; Do blocks (or honors its context) when the queue
// is full.
func WithQueueSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// New starts a Worker. Callers must Close it to stop the consumer
// goroutine.
func New(opts ...Option) *Worker {
	cfg := config{queueSize: 64}
	for _, opt := range opts {
		opt(&cfg)
	}
	w := &Worker{
		queue: make(chan pending, cfg.queueSize),
		done:  make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case p := <-w.queue:
			p.reply <- w.Handle(p.req)
		}
	}
}

// enqueue places p on the queue. The close lock makes the outcome
// binary: a request either reaches the queue before Close and is
// guaranteed a Response, or fails here with ErrClosed.
func (w *Worker) enqueue(ctx context.Context, p pending) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	// The consumer is still running while we hold the lock, so a full
	// queue drains and this send cannot block forever.
	select {
	case w.queue <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do submits a request and waits for its response. Requests from
// concurrent callers are processed in the order they were enqueued.
// A request overtaken by Close gets an error Response carrying
// ErrClosed.
func (w *Worker) Do(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	p := pending{req: req, reply: make(chan Response, 1)}
	if err := w.enqueue(ctx, p); err != nil {
		return Response{}, err
	}
	select {
	case resp := <-p.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Submit enqueues a request without waiting and returns the channel the
// response will be delivered on. The channel is buffered, so the caller
// may abandon it. Blocks while the queue is full. Every accepted
// request eventually receives exactly one Response, even across Close.
func (w *Worker) Submit(req Request) (<-chan Response, error) {
	p := pending{req: req, reply: make(chan Response, 1)}
	if err := w.enqueue(context.Background(), p); err != nil {
		return nil, err
	}
	return p.reply, nil
}

// Close stops the consumer goroutine and fails every request still in
// the queue with an error Response carrying ErrClosed. When Close
// returns, every accepted request has its Response delivered. Safe to
// call twice.
func (w *Worker) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.done)
	}
	w.mu.Unlock()
	w.wg.Wait()

	for {
		select {
		case p := <-w.queue:
			p.reply <- Response{ID: p.req.ID, Type: ResponseError, Error: ErrClosed.Error()}
		default:
			return
		}
	}
}

// Handle processes one request synchronously. It never panics: handler
// panics are recovered into an error Response.
func (w *Worker) Handle(req Request) (resp Response) {
	start := time.Now()
	resp.ID = req.ID
	defer func() {
		if r := recover(); r != nil {
			resp.Data = nil
			resp.Error = fmt.Sprintf("panic: %v", r)
		}
		resp.Duration = float64(time.Since(start)) / float64(time.Millisecond)
		if resp.Error != "" {
			resp.Type = ResponseError
			phototune.Logger().Warn("request failed",
				"id", req.ID, "type", req.Type, "err", resp.Error)
		} else {
			resp.Type = ResponseSuccess
			phototune.Logger().Debug("request done",
				"id", req.ID, "type", req.Type, "ms", resp.Duration)
		}
	}()

	data, err := dispatch(req)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	raw, err := json.Marshal(data)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Data = raw
	return resp
}
