package cli

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func newBlockingPipe() (*io.PipeReader, *io.PipeWriter) {
	return io.Pipe()
}

func TestInterruptHandler(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Matching", "Run recur match again to continue.")

	ctx, stop := handler.HandleInterrupts(context.Background())
	defer stop()

	assert.False(t, handler.WasInterrupted())
	handler.interrupt()
	handler.interrupt()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}

	assert.True(t, handler.WasInterrupted())
	assert.Contains(t, output.String(), "Matching interrupted!")
	assert.Contains(t, output.String(), "Run recur match again")
	assert.Equal(t, 1, bytes.Count([]byte(output.String()), []byte("interrupted!")))
}

func TestInterruptHandler_StopCancels(t *testing.T) {
	handler := NewInterruptHandler(nil, "Import", "")
	require.NotNil(t, handler.writer)

	ctx, stop := handler.HandleInterrupts(context.Background())
	stop()

	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
}

func TestLineReader(t *testing.T) {
	pr, pw := newBlockingPipe()
	reader := NewLineReader(pr)

	go func() {
		_, _ = pw.Write([]byte("  hello  \nlast"))
		_ = pw.Close()
	}()

	line, err := reader.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", line)

	line, err = reader.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = reader.ReadLine(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}
