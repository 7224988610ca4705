package functions

import (
	"context"
	"fmt"
	"time"

	"sqlstudio/internal/domain"
)

const defaultRetentionDays = 30

// CleanupExecutions deletes finished executions older than the retention
// window. The "retention_days" job parameter overrides the default.
func CleanupExecutions(repo domain.ExecutionRepository) Func {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		days := defaultRetentionDays
		if raw, ok := params["retention_days"]; ok {
			parsed, err := toInt(raw)
			if err != nil {
				return nil, domain.ErrValidation("invalid retention_days: %v", raw)
			}
			if parsed < 1 {
				return nil, domain.ErrValidation("retention_days must be at least 1")
			}
			days = parsed
		}

		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		deleted, err := repo.DeleteFinishedBefore(ctx, cutoff)
		if err != nil {
			return nil, fmt.Errorf("delete executions: %w", err)
		}

		return map[string]interface{}{
			"deleted_executions": deleted,
			"retention_days":     days,
		}, nil
	}
}

// toInt accepts the numeric shapes JSON decoding produces for parameters.
func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}
