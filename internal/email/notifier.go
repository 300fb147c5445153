package email

import (
	"context"
	"sync"
	"time"

	"authcore/internal/models"

	"go.uber.org/zap"
)

// WelcomeData is rendered into the welcome template
type WelcomeData struct {
	Email     string
	FirstName string
	AppURL    string
}

// Notifier sends account notifications in the background
type Notifier struct {
	messages *MessageService
	appURL   string
	timeout  time.Duration
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewNotifier creates a notifier. Each send gets its own timeout.
func NewNotifier(messages *MessageService, appURL string, timeout time.Duration, logger *zap.Logger) *Notifier {
	return &Notifier{
		messages: messages,
		appURL:   appURL,
		timeout:  timeout,
		logger:   logger,
	}
}

// SendWelcome sends the welcome email without blocking the caller.
// Failures are logged.
func (n *Notifier) SendWelcome(account *models.Account) {
	data := WelcomeData{Email: account.Email, AppURL: n.appURL}
	if account.Details.FirstName != nil {
		data.FirstName = *account.Details.FirstName
	}
	msg := Message{
		Type:    MessageWelcome,
		To:      account.Email,
		Subject: "Welcome!",
		Data:    data,
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				n.logger.Error("panic while sending welcome email", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.messages.SendMessage(ctx, msg); err != nil {
			n.logger.Warn("failed to send welcome email",
				zap.Int64("account_id", account.ID),
				zap.Error(err),
			)
			return
		}
		n.logger.Debug("welcome email sent", zap.Int64("account_id", account.ID))
	}()
}

// Wait blocks until in-flight sends finish
func (n *Notifier) Wait() {
	n.wg.Wait()
}
