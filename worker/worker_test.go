package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/gopixel/phototune"
)

func testImageData(w, h int, r, g, b uint8) ImageData {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, 255
	}
	return ImageData{Width: w, Height: h, Pixels: pix}
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func TestAdjustEchoesID(t *testing.T) {
	w := New()
	defer w.Close()

	payload := AdjustPayload{ImageData: testImageData(2, 2, 100, 100, 100), Brightness: 20}
	resp, err := w.Do(context.Background(), Request{
		ID: "req-42", Type: OpAdjust, Payload: mustMarshal(t, payload),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.ID != "req-42" || resp.Type != ResponseSuccess {
		t.Fatalf("envelope mismatch: %+v", resp)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.Duration < 0 {
		t.Fatalf("negative duration: %v", resp.Duration)
	}

	var out ImageData
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if out.Width != 2 || out.Height != 2 {
		t.Fatalf("dimensions: %dx%d", out.Width, out.Height)
	}
	// Brightness 20 on channel value 100 lands on 151.
	if out.Pixels[0] != 151 {
		t.Fatalf("red channel: got %d, want 151", out.Pixels[0])
	}
}

func TestUnknownOperation(t *testing.T) {
	w := New()
	defer w.Close()

	resp, err := w.Do(context.Background(), Request{
		ID: "x", Type: OpType("emboss"), Payload: mustMarshal(t, testImageData(1, 1, 0, 0, 0)),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Error == "" || !strings.Contains(resp.Error, "unknown operation") {
		t.Fatalf("expected unknown operation error, got %q", resp.Error)
	}
	if resp.Type != ResponseError {
		t.Fatalf("response type = %q, want error", resp.Type)
	}
	if resp.Data != nil {
		t.Fatal("error response must not carry data")
	}
}

func TestInvalidPayload(t *testing.T) {
	w := New()
	defer w.Close()

	tests := []struct {
		name    string
		payload json.RawMessage
	}{
		{"missing", nil},
		{"malformed", json.RawMessage(`{"width": "two"}`)},
		{"short pixels", mustMarshal(t, ImageData{Width: 8, Height: 8, Pixels: []byte{1, 2, 3}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := w.Do(context.Background(), Request{
				ID: "x", Type: OpBlur, Payload: tt.payload,
			})
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			if resp.Error == "" {
				t.Fatal("expected error response")
			}
		})
	}
}

func TestTransformSwapsDimensions(t *testing.T) {
	w := New()
	defer w.Close()

	payload := TransformPayload{ImageData: testImageData(4, 2, 10, 20, 30), Operation: "rotate90"}
	resp, err := w.Do(context.Background(), Request{
		ID: "rot", Type: OpTransform, Payload: mustMarshal(t, payload),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	var out ImageData
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if out.Width != 2 || out.Height != 4 {
		t.Fatalf("rotate90 dimensions: got %dx%d, want 2x4", out.Width, out.Height)
	}
}

func TestHistogramSums(t *testing.T) {
	w := New()
	defer w.Close()

	payload := HistogramPayload{ImageData: testImageData(5, 3, 7, 70, 200)}
	resp, err := w.Do(context.Background(), Request{
		ID: "h", Type: OpHistogram, Payload: mustMarshal(t, payload),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	var hist phototune.Histogram
	if err := json.Unmarshal(resp.Data, &hist); err != nil {
		t.Fatalf("decode histogram: %v", err)
	}
	if hist.R[7] != 15 || hist.G[70] != 15 || hist.B[200] != 15 {
		t.Fatalf("bins: r[7]=%d g[70]=%d b[200]=%d, want 15 each", hist.R[7], hist.G[70], hist.B[200])
	}
}

func TestConcurrentDo(t *testing.T) {
	w := New(WithQueueSize(4))
	defer w.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("req-%d", i)
			payload := FilterPayload{ImageData: testImageData(2, 2, 50, 100, 150), Filter: "invert"}
			resp, err := w.Do(context.Background(), Request{
				ID: id, Type: OpFilter, Payload: mustMarshal(t, payload),
			})
			if err != nil {
				t.Errorf("%s: %v", id, err)
				return
			}
			if resp.ID != id {
				t.Errorf("response ID %q for request %q", resp.ID, id)
			}
			if resp.Error != "" {
				t.Errorf("%s: %s", id, resp.Error)
			}
		}(i)
	}
	wg.Wait()
}

func TestSubmitDeliversAsync(t *testing.T) {
	w := New()
	defer w.Close()

	payload := FilterPayload{ImageData: testImageData(1, 1, 10, 20, 30), Filter: "invert"}
	ch, err := w.Submit(Request{ID: "async-1", Type: OpFilter, Payload: mustMarshal(t, payload)})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	resp := <-ch
	if resp.ID != "async-1" || resp.Error != "" {
		t.Fatalf("response: %+v", resp)
	}
	var out ImageData
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if out.Pixels[0] != 245 {
		t.Fatalf("inverted red = %d, want 245", out.Pixels[0])
	}
}

func TestSubmitAfterClose(t *testing.T) {
	w := New()
	w.Close()
	// The buffered queue stays sendable after Close; the closed flag
	// must reject every attempt, not just most of them.
	for i := 0; i < 100; i++ {
		if _, err := w.Submit(Request{ID: "x", Type: OpHistogram}); err != ErrClosed {
			t.Fatalf("Submit %d: expected ErrClosed, got %v", i, err)
		}
	}
}

func TestCloseFailsQueuedRequests(t *testing.T) {
	// A worker whose consumer never ran still has to answer everything
	// sitting in its queue when Close drains it.
	w := &Worker{queue: make(chan pending, 4), done: make(chan struct{})}
	replies := make([]chan Response, 3)
	for i := range replies {
		replies[i] = make(chan Response, 1)
		w.queue <- pending{req: Request{ID: fmt.Sprintf("q-%d", i)}, reply: replies[i]}
	}
	w.Close()
	for i, ch := range replies {
		select {
		case resp := <-ch:
			if resp.Type != ResponseError || resp.Error != ErrClosed.Error() {
				t.Errorf("request %d: response %+v, want ErrClosed error", i, resp)
			}
			if resp.ID != fmt.Sprintf("q-%d", i) {
				t.Errorf("request %d: ID %q", i, resp.ID)
			}
		default:
			t.Fatalf("request %d never received a response", i)
		}
	}
}

func TestCloseAnswersEverySubmittedRequest(t *testing.T) {
	w := New(WithQueueSize(32))
	payload := mustMarshal(t, HistogramPayload{ImageData: testImageData(64, 64, 1, 2, 3)})

	var chans []<-chan Response
	for i := 0; i < 20; i++ {
		ch, err := w.Submit(Request{ID: fmt.Sprintf("r-%d", i), Type: OpHistogram, Payload: payload})
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		chans = append(chans, ch)
	}
	w.Close()

	// Once Close returns, each request was either processed or failed
	// with ErrClosed; none may be left hanging.
	for i, ch := range chans {
		select {
		case resp := <-ch:
			if resp.Error != "" && resp.Error != ErrClosed.Error() {
				t.Errorf("request %d: unexpected error %q", i, resp.Error)
			}
		default:
			t.Fatalf("request %d has no response after Close", i)
		}
	}
}

func TestDoAfterClose(t *testing.T) {
	w := New()
	w.Close()
	_, err := w.Do(context.Background(), Request{ID: "x", Type: OpHistogram})
	if err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDoHonorsContext(t *testing.T) {
	w := New()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Do(ctx, Request{ID: "x", Type: OpHistogram,
		Payload: mustMarshal(t, HistogramPayload{ImageData: testImageData(1, 1, 0, 0, 0)})})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHandleDirect(t *testing.T) {
	w := New()
	defer w.Close()

	// Handle is the synchronous entry point; base64 pixel transport
	// included.
	resp := w.Handle(Request{ID: "p", Type: OpFilter,
		Payload: json.RawMessage(`{"width":1,"height":1,"pixels":"AAAAAA==","filter":"grayscale"}`)})
	if resp.Error != "" {
		t.Fatalf("valid request errored: %s", resp.Error)
	}
}
