package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

// sweepRecorder implements just enough of SessionService to observe sweeps
type sweepRecorder struct {
	mu      sync.Mutex
	maxIdle time.Duration
	calls   int
}

func (r *sweepRecorder) Sweep(maxIdle time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.maxIdle = maxIdle
	return 0, nil
}

func (r *sweepRecorder) Messages(string) []models.Message                            { return nil }
func (r *sweepRecorder) ReplaceMessages(string, []models.Message) error              { return nil }
func (r *sweepRecorder) AppendExchange(string, models.Message, models.Message) error { return nil }
func (r *sweepRecorder) SetActive(string) error                                      { return nil }
func (r *sweepRecorder) ActiveSession() string                                       { return "" }
func (r *sweepRecorder) Remove(string) error                                         { return nil }
func (r *sweepRecorder) Sessions() []*interfaces.SessionState                        { return nil }

func TestZeroTTLDisablesScheduler(t *testing.T) {
	recorder := &sweepRecorder{}
	config := &common.SessionsConfig{RetentionTTL: "0", SweepInterval: "1s"}
	svc := NewService(recorder, config, arbor.NewLogger())

	require.NoError(t, svc.Start())
	svc.Stop()

	assert.Zero(t, recorder.calls)
}

func TestSweepUsesConfiguredTTL(t *testing.T) {
	recorder := &sweepRecorder{}
	config := &common.SessionsConfig{RetentionTTL: "24h", SweepInterval: "10m"}
	svc := NewService(recorder, config, arbor.NewLogger())

	svc.sweep()

	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, 24*time.Hour, recorder.maxIdle)
}
