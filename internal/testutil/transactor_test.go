package testutil_test

import (
	"context"
	"errors"
	"testing"

	"authcore/internal/repository"
	"authcore/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestStubTransactor(t *testing.T) {
	tx := &testutil.StubTransactor{}

	var ran bool
	err := tx.Transaction(context.Background(), func(ctx context.Context) error {
		repository.AfterCommit(ctx, func() { ran = true })
		return tx.Transaction(ctx, func(ctx context.Context) error { return nil })
	})
	require.NoError(t, err)
	require.True(t, ran)

	dropped := false
	err = tx.Transaction(context.Background(), func(ctx context.Context) error {
		repository.AfterCommit(ctx, func() { dropped = true })
		return errors.New("fail")
	})
	require.Error(t, err)
	require.False(t, dropped)

	commits, rollbacks := tx.Counts()
	require.Equal(t, 1, commits)
	require.Equal(t, 1, rollbacks)
}
