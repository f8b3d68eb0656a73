package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
)

type recordingObserver struct {
	mu      sync.Mutex
	results []domain.SweepResult
	errs    []error
}

func (o *recordingObserver) ObserveSweep(r domain.SweepResult, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, r)
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.results)
}

func TestSweeper_RunOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _, _ = s.CreateOrJoin(ctx, "vault-empty", domain.VaultPublic, "")

	obs := &recordingObserver{}
	sw := NewSweeper(s, time.Hour, WithSweepObserver(obs))

	res, err := sw.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.RemovedVaults)
	require.Equal(t, 1, obs.count())
	assert.Equal(t, res, obs.results[0])
	assert.NoError(t, obs.errs[0])
}

func TestSweeper_Background(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _, _ = s.CreateOrJoin(ctx, "vault-empty", domain.VaultPublic, "")

	obs := &recordingObserver{}
	sw := NewSweeper(s, 10*time.Millisecond, WithSweepObserver(obs))
	sw.Start()
	sw.Start() // second call is ignored

	require.Eventually(t, func() bool {
		return s.Stats().Vaults == 0
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, sw.Close())
	runs := obs.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, runs, obs.count(), "no runs after Close")
}

func TestSweeper_CloseWithoutStart(t *testing.T) {
	sw := NewSweeper(New(), 0)
	assert.Equal(t, DefaultSweepInterval, sw.interval)

	done := make(chan struct{})
	go func() {
		_ = sw.Close()
		_ = sw.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked without Start")
	}
}
