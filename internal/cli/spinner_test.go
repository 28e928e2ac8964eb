package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureUI(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	old := uiOut
	uiOut = buf
	t.Cleanup(func() { uiOut = old })
	return buf
}

func TestSpinner_Draws(t *testing.T) {
	buf := captureUI(t)

	s := newSpinner(context.Background(), "applying")
	s.Start()
	assert.Eventually(t, func() bool { return strings.Contains(buf.String(), "applying") },
		time.Second, 10*time.Millisecond)

	s.SetMessage("site 2/3")
	s.Stop()
	s.Stop()
}

func TestSpinner_StopsWithContext(t *testing.T) {
	captureUI(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, "waiting")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	s.Stop()
}

func TestSpinner_StopWithMessages(t *testing.T) {
	buf := captureUI(t)

	s := newSpinner(context.Background(), "working")
	s.Start()
	s.StopWithSuccess("done")
	assert.Contains(t, buf.String(), "done")

	s = newSpinner(context.Background(), "working")
	s.Start()
	s.StopWithError("failed")
	assert.Contains(t, buf.String(), "failed")
}
