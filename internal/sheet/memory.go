package sheet

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and by local development
// runs that have no database configured. It mirrors the overwrite
// semantics of the worksheet: writes land row by row, and rows past the
// written range survive until explicitly truncated.
type Memory struct {
	mu     sync.Mutex
	header []string
	rows   [][]string
}

// NewMemory creates an empty in-memory sheet.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ReadAll(ctx context.Context) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Table{Header: cloneRow(m.header), Rows: cloneRows(m.rows)}, nil
}

func (m *Memory) Overwrite(ctx context.Context, header []string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.header = cloneRow(header)
	for i, row := range rows {
		if i < len(m.rows) {
			m.rows[i] = cloneRow(row)
		} else {
			m.rows = append(m.rows, cloneRow(row))
		}
	}
	return nil
}

func (m *Memory) AppendRows(ctx context.Context, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, cloneRows(rows)...)
	return nil
}

func (m *Memory) DeleteTrailingRows(ctx context.Context, from int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if from < 0 {
		from = 0
	}
	if from < len(m.rows) {
		m.rows = m.rows[:from]
	}
	return nil
}

func (m *Memory) IsReachable(ctx context.Context) bool { return true }

// RowCount returns the number of data rows currently held.
func (m *Memory) RowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func cloneRow(row []string) []string {
	if row == nil {
		return nil
	}
	out := make([]string, len(row))
	copy(out, row)
	return out
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = cloneRow(r)
	}
	return out
}
