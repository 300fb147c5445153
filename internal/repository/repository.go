package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Transactor runs a unit of work inside a database transaction.
// Calls nested inside an open transaction join it.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

type txState struct {
	tx          *sqlx.Tx
	afterCommit []func()
}

func stateFrom(ctx context.Context) *txState {
	state, _ := ctx.Value(txKey{}).(*txState)
	return state
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// DB returns the database connection
func (r *BaseRepository) DB() *sqlx.DB {
	return r.db
}

// Ext returns the transaction carried by ctx, or the pool when there is none
func (r *BaseRepository) Ext(ctx context.Context) sqlx.ExtContext {
	if state := stateFrom(ctx); state != nil && state.tx != nil {
		return state.tx
	}
	return r.db
}

// Transaction implements the Transactor interface
func (r *BaseRepository) Transaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if stateFrom(ctx) != nil {
		return fn(ctx)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	state := &txState{tx: tx}
	txCtx := context.WithValue(ctx, txKey{}, state)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	state.run()
	return nil
}

func (s *txState) run() {
	hooks := s.afterCommit
	s.afterCommit = nil
	for _, hook := range hooks {
		hook()
	}
}

// AfterCommit registers fn to run once the outermost transaction carried by
// ctx commits. Hooks are dropped on rollback. Without a transaction fn runs
// immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if state := stateFrom(ctx); state != nil {
		state.afterCommit = append(state.afterCommit, fn)
		return
	}
	fn()
}

// Detached returns a context that does not carry the caller's transaction,
// so work started from it commits on its own.
func Detached(ctx context.Context) context.Context {
	if stateFrom(ctx) == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, (*txState)(nil))
}

// WithHooks opens a transaction scope that has no database connection behind
// it. Repositories called with the returned context use the pool, while
// AfterCommit hooks are collected until commit is called.
func WithHooks(ctx context.Context) (txCtx context.Context, commit func()) {
	state := &txState{}
	return context.WithValue(ctx, txKey{}, state), state.run
}

// InTransaction reports whether ctx carries an open transaction
func InTransaction(ctx context.Context) bool {
	return stateFrom(ctx) != nil
}
