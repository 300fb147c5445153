package auth

import (
	"context"
	"time"

	"authcore/internal/config"
	"authcore/internal/models"
	"authcore/internal/repository"

	"go.uber.org/zap"
)

// Throttle tracks wrong password attempts and blocks accounts that reach the
// configured maximum for the block duration
type Throttle struct {
	history       repository.LoginHistoryRepository
	tx            repository.Transactor
	maxAttempts   int
	blockDuration time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewThrottle creates a login throttle
func NewThrottle(cfg config.AuthConfig, history repository.LoginHistoryRepository, tx repository.Transactor, logger *zap.Logger) *Throttle {
	return &Throttle{
		history:       history,
		tx:            tx,
		maxAttempts:   cfg.MaxLoginAttempts,
		blockDuration: cfg.AccountBlockDuration,
		logger:        logger,
		now:           time.Now,
	}
}

// RecordSuccessfulLogin stamps the login time and clears the wrong-attempt
// counter. It joins the transaction carried by ctx.
func (t *Throttle) RecordSuccessfulLogin(ctx context.Context, accountID int64) error {
	return t.history.MarkLogin(ctx, accountID, t.now())
}

// NextWrongCount is previous+1, wrapping to 1 once it would exceed the maximum
func (t *Throttle) NextWrongCount(previous int) int {
	next := previous + 1
	if next > t.maxAttempts {
		return 1
	}
	return next
}

// RecordWrongAttempt stores the next wrong-attempt count in its own
// transaction so that it survives the rollback of the failed login
func (t *Throttle) RecordWrongAttempt(ctx context.Context, previousCount int, accountID int64) error {
	count := t.NextWrongCount(previousCount)
	return t.tx.Transaction(repository.Detached(ctx), func(ctx context.Context) error {
		return t.history.MarkWrongAttempt(ctx, accountID, count, t.now())
	})
}

// IsAccountBlocked reports whether the account reached the maximum and its
// last wrong attempt is younger than the block duration
func (t *Throttle) IsAccountBlocked(account *models.Account) bool {
	h := account.LoginHistory
	if h == nil || h.LastWrongLoginAttempt == nil {
		return false
	}
	if h.WrongLoginCount < t.maxAttempts {
		return false
	}
	return h.LastWrongLoginAttempt.Add(t.blockDuration).After(t.now())
}

// Sweep zeroes counters whose block has elapsed. The next wrong attempt then
// starts at 1, the same value the wrap-around in NextWrongCount yields.
func (t *Throttle) Sweep(ctx context.Context) (int64, error) {
	reset, err := t.history.ResetExpiredBlocks(ctx, t.maxAttempts, t.now().Add(-t.blockDuration))
	if err != nil {
		return 0, err
	}
	if reset > 0 {
		t.logger.Info("reset expired login blocks", zap.Int64("accounts", reset))
	}
	return reset, nil
}
