package domain

// Table holds a tabular query or merge result: a column list and rows keyed
// by column name. Immutable once published to an execution's table store.
type Table struct {
	Columns []string
	Rows    []map[string]interface{}
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
