package workflow

import (
	"fmt"
	"strings"

	"sqlstudio/internal/domain"
)

func defaultOutputName(stepNumber int) string {
	return fmt.Sprintf("step_%d_result", stepNumber)
}

// mergeTables produces a new table combining the step's named source tables.
// Shape checks run before any table is resolved so a misconfigured merge
// fails the same way whether or not earlier steps produced its inputs.
func mergeTables(step domain.Step, store *TableStore) (*domain.Table, error) {
	if len(step.SourceTables) < 2 {
		return nil, domain.ErrValidation("Merge operation requires at least 2 source tables")
	}
	if step.MergeType != domain.MergeTypeUnion && len(step.JoinKeys) == 0 {
		return nil, domain.ErrValidation("Join operations require join keys")
	}

	sources := make([]*domain.Table, len(step.SourceTables))
	for i, name := range step.SourceTables {
		table, ok := store.Get(name)
		if !ok {
			return nil, domain.ErrValidation("Referenced table '%s' not found", name)
		}
		sources[i] = table
	}

	switch step.MergeType {
	case domain.MergeTypeUnion:
		return unionTables(sources), nil
	case domain.MergeTypeInnerJoin, domain.MergeTypeLeftJoin, domain.MergeTypeRightJoin, domain.MergeTypeFullJoin:
		return joinTables(step.MergeType,
			step.SourceTables[0], sources[0],
			step.SourceTables[1], sources[1],
			step.JoinKeys), nil
	default:
		return nil, domain.ErrValidation("unknown merge type '%s'", step.MergeType)
	}
}

// unionTables concatenates rows of all sources in the order given, UNION ALL
// style: duplicate rows are retained. The output column set is the union of
// source columns in first-seen order; rows keep only the values they had.
func unionTables(sources []*domain.Table) *domain.Table {
	var columns []string
	seen := make(map[string]bool)
	rowTotal := 0
	for _, src := range sources {
		for _, col := range src.Columns {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
		rowTotal += len(src.Rows)
	}

	rows := make([]map[string]interface{}, 0, rowTotal)
	for _, src := range sources {
		rows = append(rows, src.Rows...)
	}
	return &domain.Table{Columns: columns, Rows: rows}
}

// joinTables hash-joins two tables on the given key pairs. The right table
// is indexed on its key columns, then the left table is scanned; outer
// variants additionally emit unmatched rows from the preserved side with
// nulls for the other side. A row whose key contains a null never matches.
func joinTables(mergeType, leftName string, left *domain.Table, rightName string, right *domain.Table, keys []domain.JoinKey) *domain.Table {
	collisions := make(map[string]bool)
	rightCols := make(map[string]bool, len(right.Columns))
	for _, col := range right.Columns {
		rightCols[col] = true
	}
	for _, col := range left.Columns {
		if rightCols[col] {
			collisions[col] = true
		}
	}

	qualify := func(tableName, col string) string {
		if collisions[col] {
			return tableName + "." + col
		}
		return col
	}

	columns := make([]string, 0, len(left.Columns)+len(right.Columns))
	for _, col := range left.Columns {
		columns = append(columns, qualify(leftName, col))
	}
	for _, col := range right.Columns {
		columns = append(columns, qualify(rightName, col))
	}

	index := make(map[string][]int)
	for i, row := range right.Rows {
		key, ok := joinKeyOf(row, keys, false)
		if !ok {
			continue
		}
		index[key] = append(index[key], i)
	}

	combine := func(leftRow, rightRow map[string]interface{}) map[string]interface{} {
		out := make(map[string]interface{}, len(columns))
		for _, col := range left.Columns {
			var v interface{}
			if leftRow != nil {
				v = leftRow[col]
			}
			out[qualify(leftName, col)] = v
		}
		for _, col := range right.Columns {
			var v interface{}
			if rightRow != nil {
				v = rightRow[col]
			}
			out[qualify(rightName, col)] = v
		}
		return out
	}

	var rows []map[string]interface{}
	matchedRight := make([]bool, len(right.Rows))

	for _, leftRow := range left.Rows {
		key, ok := joinKeyOf(leftRow, keys, true)
		matches := index[key]
		if ok && len(matches) > 0 {
			for _, ri := range matches {
				matchedRight[ri] = true
				rows = append(rows, combine(leftRow, right.Rows[ri]))
			}
			continue
		}
		if mergeType == domain.MergeTypeLeftJoin || mergeType == domain.MergeTypeFullJoin {
			rows = append(rows, combine(leftRow, nil))
		}
	}

	if mergeType == domain.MergeTypeRightJoin || mergeType == domain.MergeTypeFullJoin {
		for i, rightRow := range right.Rows {
			if !matchedRight[i] {
				rows = append(rows, combine(nil, rightRow))
			}
		}
	}

	return &domain.Table{Columns: columns, Rows: rows}
}

// joinKeyOf builds the composite hash key for a row. ok is false when any
// key column is null, since null never matches null in SQL joins.
func joinKeyOf(row map[string]interface{}, keys []domain.JoinKey, leftSide bool) (string, bool) {
	parts := make([]string, len(keys))
	for i, k := range keys {
		col := k.Right
		if leftSide {
			col = k.Left
		}
		v, ok := row[col]
		if !ok || v == nil {
			return "", false
		}
		parts[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(parts, "\x1f"), true
}
