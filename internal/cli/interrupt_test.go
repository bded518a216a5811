package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer guarded for writes from the signal goroutine.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler_DefaultsToStdout(t *testing.T) {
	handler := NewInterruptHandler(nil)
	assert.Equal(t, os.Stdout, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestHandleInterrupts_CancelsOnSignal(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	ctx, stop := handler.HandleInterrupts(context.Background(), true)
	defer stop()
	require.NoError(t, ctx.Err())

	handler.signals <- syscall.SIGTERM

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("run context was not canceled by SIGTERM")
	}

	assert.Eventually(t, handler.WasInterrupted, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, strings.Count(output.String(), "Report run interrupted!"))
	assert.Contains(t, output.String(), "Interrupted files were not archived")
}

func TestHandleInterrupts_ParentCancelIsNotAnInterrupt(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := handler.HandleInterrupts(parent, false)
	defer stop()

	cancel()
	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)

	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}

func TestShowInterruptMessage(t *testing.T) {
	for _, archiving := range []bool{true, false} {
		var output bytes.Buffer
		handler := &InterruptHandler{writer: &output, archiving: archiving}

		handler.showInterruptMessage()

		msg := output.String()
		assert.Contains(t, msg, "Report run interrupted!")
		assert.Contains(t, msg, "Weeks already written are kept")
		assert.Equal(t, archiving, strings.Contains(msg, "Re-run to record them"), "archiving=%v", archiving)
	}
}
