// Package account manages the lifecycle of user accounts: creation with the
// default profile row and role, updates, deletion and profile views.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"authcore/internal/apperror"
	"authcore/internal/models"
	"authcore/internal/repository"
	"authcore/internal/validation"

	"go.uber.org/zap"
)

const (
	keyCreateUser    = "createUser"
	keyUpdateUser    = "updateUser"
	keyFetchUser     = "fetchUser"
	keyUpdateProfile = "updateProfile"
)

// PasswordHasher hashes plain-text passwords before they are stored
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// WelcomeSender notifies a freshly created account. It must not block.
type WelcomeSender interface {
	SendWelcome(account *models.Account)
}

// Service implements account lifecycle operations
type Service struct {
	tx       repository.Transactor
	accounts repository.AccountRepository
	hasher   PasswordHasher
	welcome  WelcomeSender
	logger   *zap.Logger
}

// NewService creates a new account service
func NewService(tx repository.Transactor, accounts repository.AccountRepository, hasher PasswordHasher, welcome WelcomeSender, logger *zap.Logger) *Service {
	return &Service{
		tx:       tx,
		accounts: accounts,
		hasher:   hasher,
		welcome:  welcome,
		logger:   logger,
	}
}

func (s *Service) hashDraftPassword(draft *models.AccountDraft) error {
	if draft.Password == nil {
		return nil
	}
	hashed, err := s.hasher.Hash(*draft.Password)
	if err != nil {
		return err
	}
	draft.Password = &hashed
	return nil
}

// CreateUser inserts the account, its profile row and its role in one
// transaction and returns the stored account. The welcome email is sent once
// the outermost transaction commits.
func (s *Service) CreateUser(ctx context.Context, draft *models.AccountDraft, createdBy *int64) (*models.Account, error) {
	exists, err := s.accounts.ExistsByEmail(ctx, draft.Email, 0)
	if err != nil {
		return nil, apperror.AccountCreateFailed().Wrap(err)
	}
	if exists {
		return nil, apperror.DuplicateAccount(keyCreateUser)
	}

	stored := *draft
	if stored.Role == "" {
		stored.Role = models.RoleUser
	}
	if err := s.hashDraftPassword(&stored); err != nil {
		return nil, apperror.AccountCreateFailed().Wrap(err)
	}

	var account *models.Account
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		id, err := s.accounts.Create(ctx, &stored, createdBy)
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return apperror.DuplicateAccount(keyCreateUser).Wrap(err)
		}
		if err != nil {
			return apperror.AccountCreateFailed().Wrap(err)
		}

		if err := s.accounts.CreateDetails(ctx, id, &stored); err != nil {
			return apperror.AccountCreateFailed().Wrap(err)
		}
		if err := s.accounts.AttachRole(ctx, id, stored.Role); err != nil {
			return apperror.AccountCreateFailed().Wrap(err)
		}

		account, err = s.accounts.FindByID(ctx, id)
		if err != nil {
			return apperror.AccountCreateFailed().Wrap(err)
		}

		created := account
		repository.AfterCommit(ctx, func() {
			s.welcome.SendWelcome(created)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.Int64("account_id", account.ID),
		zap.String("role", string(stored.Role)),
	)
	return account, nil
}

// UpdateUser applies the non-nil fields of draft to the account draft.ID
func (s *Service) UpdateUser(ctx context.Context, draft *models.AccountDraft, updatedBy *int64) (*models.Account, error) {
	stored := *draft
	if err := s.hashDraftPassword(&stored); err != nil {
		return nil, apperror.AccountUpdateFailed().Wrap(err)
	}

	var account *models.Account
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if stored.Email != "" {
			exists, err := s.accounts.ExistsByEmail(ctx, stored.Email, stored.ID)
			if err != nil {
				return apperror.AccountUpdateFailed().Wrap(err)
			}
			if exists {
				return apperror.DuplicateAccount(keyUpdateUser)
			}
		}

		rows, err := s.accounts.Update(ctx, &stored, updatedBy)
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return apperror.DuplicateAccount(keyUpdateUser).Wrap(err)
		}
		if err != nil {
			return apperror.AccountUpdateFailed().Wrap(err)
		}
		if rows != 1 {
			return apperror.AccountUpdateFailed()
		}

		rows, err = s.accounts.UpdateDetails(ctx, &stored)
		if err != nil {
			return apperror.AccountUpdateFailed().Wrap(err)
		}
		if rows != 1 {
			return apperror.AccountUpdateFailed()
		}

		account, err = s.accounts.FindByID(ctx, stored.ID)
		if err != nil {
			return apperror.AccountUpdateFailed().Wrap(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteUser removes the account and, by cascade, everything attached to it
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		rows, err := s.accounts.Delete(ctx, id)
		if err != nil {
			return apperror.AccountDeleteFailed().Wrap(err)
		}
		if rows == 0 {
			return apperror.AccountDeleteFailed()
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("account deleted", zap.Int64("account_id", id))
	return nil
}

// FindUserByEmail returns the account holding email
func (s *Service) FindUserByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.accounts.FindByEmail(ctx, email)
}

// FindUserByID returns the account with the given id
func (s *Service) FindUserByID(ctx context.Context, id int64) (*models.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

// FindPersistedUserByID is FindUserByID with absence reported as NotFound
func (s *Service) FindPersistedUserByID(ctx context.Context, id int64) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, apperror.NotFound(keyFetchUser)
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// FetchUserProfile returns the public profile of account
func (s *Service) FetchUserProfile(account *models.Account) models.UserProfile {
	return models.NewUserProfile(account)
}

// ModifyUserProfile updates the profile of actor and returns the new projection
func (s *Service) ModifyUserProfile(ctx context.Context, req models.UpdateProfileRequest, actor *models.Account) (models.UserProfile, error) {
	draft, err := profileDraft(req, actor)
	if err != nil {
		return models.UserProfile{}, err
	}

	account, err := s.UpdateUser(ctx, draft, &actor.ID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return models.NewUserProfile(account), nil
}

// profileDraft converts the request into a draft for actor. Dial code and
// phone are validated together, falling back to the stored counterpart.
func profileDraft(req models.UpdateProfileRequest, actor *models.Account) (*models.AccountDraft, error) {
	draft := &models.AccountDraft{
		ID:        actor.ID,
		FirstName: trimmed(req.FirstName),
		LastName:  trimmed(req.LastName),
		DialCode:  trimmed(req.DialCode),
		Phone:     trimmed(req.Phone),
	}
	if req.Email != nil {
		draft.Email = strings.TrimSpace(*req.Email)
	}

	if draft.DialCode != nil || draft.Phone != nil {
		dialCode := coalesce(draft.DialCode, actor.Details.DialCode)
		phone := coalesce(draft.Phone, actor.Details.Phone)
		if dialCode == "" || phone == "" || !validation.ValidPhone(dialCode, phone) {
			return nil, apperror.InvalidRequest(keyUpdateProfile)
		}
		if draft.DialCode != nil {
			code := strings.TrimPrefix(*draft.DialCode, "+")
			draft.DialCode = &code
		}
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse(models.DateLayout, strings.TrimSpace(*req.DateOfBirth))
		if err != nil || dob.After(time.Now()) {
			return nil, apperror.InvalidRequest(keyUpdateProfile)
		}
		draft.DateOfBirth = &dob
	}

	return draft, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func coalesce(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}
