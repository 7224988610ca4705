package functions

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlstudio/internal/domain"
	"sqlstudio/internal/testutil"
)

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.DiscardHandler))
}

func TestInvoke(t *testing.T) {
	registry := newTestRegistry()
	registry.Register("echo", func(_ context.Context, params map[string]interface{}) (interface{}, error) {
		return params["value"], nil
	})

	result, err := registry.Invoke(context.Background(), "echo", map[string]interface{}{"value": 42})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestInvokeUnknownFunction(t *testing.T) {
	registry := newTestRegistry()

	_, err := registry.Invoke(context.Background(), "does_not_exist", nil)
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestInvokePropagatesError(t *testing.T) {
	registry := newTestRegistry()
	boom := errors.New("boom")
	registry.Register("failing", func(context.Context, map[string]interface{}) (interface{}, error) {
		return nil, boom
	})

	_, err := registry.Invoke(context.Background(), "failing", nil)
	assert.ErrorIs(t, err, boom)
}

func TestCleanupExecutions(t *testing.T) {
	var gotCutoff time.Time
	repo := &testutil.MockExecutionRepo{
		DeleteFinishedBeforeFn: func(_ context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 7, nil
		},
	}

	fn := CleanupExecutions(repo)
	result, err := fn(context.Background(), map[string]interface{}{"retention_days": float64(5)})
	require.NoError(t, err)

	out := result.(map[string]interface{})
	assert.Equal(t, int64(7), out["deleted_executions"])
	assert.Equal(t, 5, out["retention_days"])

	wantCutoff := time.Now().UTC().AddDate(0, 0, -5)
	assert.WithinDuration(t, wantCutoff, gotCutoff, time.Minute)
}

func TestCleanupExecutionsRejectsBadRetention(t *testing.T) {
	repo := &testutil.MockExecutionRepo{}
	fn := CleanupExecutions(repo)

	_, err := fn(context.Background(), map[string]interface{}{"retention_days": "soon"})
	var invalid *domain.ValidationError
	assert.ErrorAs(t, err, &invalid)

	_, err = fn(context.Background(), map[string]interface{}{"retention_days": float64(0)})
	assert.ErrorAs(t, err, &invalid)
}
