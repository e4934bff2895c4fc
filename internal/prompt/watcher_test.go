package prompt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "v1.yaml", summarizeV1)

	reg, err := NewRegistry(dir, testLogger(t))
	require.NoError(t, err)

	w, err := NewWatcher(reg, 50*time.Millisecond, testLogger(t))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	writeDef(t, dir, "v1_1.yaml", summarizeV11)

	require.Eventually(t, func() bool {
		def, err := reg.ResolveLatest("clinical_summarization")
		return err == nil && def.Version.String() == "1.1.0"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcherKeepsServingIndexOnBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "v1.yaml", summarizeV1)

	reg, err := NewRegistry(dir, testLogger(t))
	require.NoError(t, err)

	w, err := NewWatcher(reg, 50*time.Millisecond, testLogger(t))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	writeDef(t, dir, "broken.yaml", "task: [unclosed")

	// Give the debounce window time to fire the failed reload.
	time.Sleep(500 * time.Millisecond)

	def, err := reg.ResolveLatest("clinical_summarization")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", def.Version.String())
}
