package workflow

import "sqlstudio/internal/domain"

// TableStore holds the named tabular results produced during one execution.
// It is created empty when a run starts and discarded when the run finishes;
// nothing in it outlives the execution. Not safe for concurrent use — steps
// within a run execute sequentially.
type TableStore struct {
	tables map[string]*domain.Table
}

func NewTableStore() *TableStore {
	return &TableStore{tables: make(map[string]*domain.Table)}
}

// Save publishes a table under name. Names are unique within a run; a second
// save under the same name is a configuration error.
func (s *TableStore) Save(name string, table *domain.Table) error {
	if _, exists := s.tables[name]; exists {
		return domain.ErrValidation("table name '%s' already used in this execution", name)
	}
	s.tables[name] = table
	return nil
}

// Get returns the table published under name, if any.
func (s *TableStore) Get(name string) (*domain.Table, bool) {
	table, ok := s.tables[name]
	return table, ok
}

// Len reports how many tables have been published.
func (s *TableStore) Len() int {
	return len(s.tables)
}
