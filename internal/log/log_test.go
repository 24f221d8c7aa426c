package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scrim/internal/pubsub"
)

func useBufferLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := defaultLogger
	defaultLogger = &Logger{
		writer:   &buf,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
	}
	t.Cleanup(func() { defaultLogger = prev })
	return &buf
}

func TestWrite_Format(t *testing.T) {
	buf := useBufferLogger(t)

	Info(CatPortal, "registered", "id", "toast", "category", "overlay")

	require.Contains(t, buf.String(), "[INFO] [portal] registered id=toast category=overlay")
}

func TestWrite_OddFieldCount(t *testing.T) {
	buf := useBufferLogger(t)

	Debug(CatFloating, "tick", "orphan")

	require.Contains(t, buf.String(), "orphan=<missing>")
}

func TestWrite_MinLevelFilters(t *testing.T) {
	buf := useBufferLogger(t)
	SetMinLevel(LevelWarn)

	Debug(CatUI, "invisible")
	Info(CatUI, "also invisible")
	Warn(CatUI, "visible")

	out := buf.String()
	require.NotContains(t, out, "invisible")
	require.Contains(t, out, "[WARN] [ui] visible")
}

func TestWrite_DisabledDropsEverything(t *testing.T) {
	buf := useBufferLogger(t)
	SetEnabled(false)

	Error(CatHost, "dropped")

	require.Empty(t, buf.String())
}

func TestErrorErr_IncludesError(t *testing.T) {
	buf := useBufferLogger(t)

	ErrorErr(CatConfig, "load failed", errors.New("boom"))

	require.Contains(t, buf.String(), "error=boom")
}

func TestNewListener_ReceivesEntries(t *testing.T) {
	useBufferLogger(t)

	ctx := t.Context()
	listener := NewListener(ctx)
	require.NotNil(t, listener)

	cmd := listener.Listen()
	done := make(chan string, 1)
	go func() {
		if msg, ok := cmd().(LogEvent); ok {
			done <- msg.Payload
		} else {
			done <- ""
		}
	}()

	// Give the listener goroutine a chance to block on the channel.
	time.Sleep(20 * time.Millisecond)
	Info(CatTrace, "span exported")

	select {
	case entry := <-done:
		require.Contains(t, entry, "span exported")
	case <-time.After(time.Second):
		t.Fatal("listener never received the entry")
	}
}
