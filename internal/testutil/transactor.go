package testutil

import (
	"context"
	"sync"

	"authcore/internal/repository"
)

// StubTransactor is a Transactor without a database. It honours nesting and
// AfterCommit hooks and counts outcomes. Writes made through MemoryStore are
// not rolled back.
type StubTransactor struct {
	mu        sync.Mutex
	Commits   int
	Rollbacks int
}

// Transaction implements the Transactor interface
func (s *StubTransactor) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if repository.InTransaction(ctx) {
		return fn(ctx)
	}

	txCtx, commit := repository.WithHooks(ctx)
	if err := fn(txCtx); err != nil {
		s.mu.Lock()
		s.Rollbacks++
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.Commits++
	s.mu.Unlock()

	commit()
	return nil
}

// Counts returns the number of commits and rollbacks seen so far
func (s *StubTransactor) Counts() (commits, rollbacks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Commits, s.Rollbacks
}
