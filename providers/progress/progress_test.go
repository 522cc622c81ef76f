package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecorderConcurrent(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Update("a", "Error - retry 1/3")
		}()
	}
	wg.Wait()

	assert.Len(t, r.Updates(), 50)
	assert.Len(t, r.Statuses("a"), 50)
	assert.Empty(t, r.Statuses("b"))
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	NewLogSink(zap.New(core)).Update("sentiment", "Error - retry 2/3")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sentiment", fields["agent"])
	assert.Equal(t, "Error - retry 2/3", fields["status"])
	assert.Equal(t, "progress", fields["component"])
}

func TestMulti(t *testing.T) {
	var a, b Recorder
	Multi(&a, nil, &b, Nop).Update("x", "done")

	assert.Equal(t, []Update{{Agent: "x", Status: "done"}}, a.Updates())
	assert.Equal(t, a.Updates(), b.Updates())
}
