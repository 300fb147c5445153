// Package auth issues and validates tokens and orchestrates the login channels
package auth

import (
	"context"
	"errors"
	"strings"

	"authcore/internal/apperror"
	"authcore/internal/identity"
	"authcore/internal/models"
	"authcore/internal/repository"

	"go.uber.org/zap"
)

const (
	keyLogin           = "login"
	keySignup          = "signup"
	keyThirdPartyLogin = "thirdPartyLogin"
	keySSOLogin        = "ssoLogin"
	keyMarkLogin       = "markUserLogin"
	keyFetchUser       = "fetchUser"
	keyCreateToken     = "createToken"
	keySaveThirdParty  = "saveThirdPartyLogin"
)

// UserCreator creates accounts with their profile row and role
type UserCreator interface {
	CreateUser(ctx context.Context, draft *models.AccountDraft, createdBy *int64) (*models.Account, error)
}

// SSOPolicy decides which organisations may sign in through SSO
type SSOPolicy interface {
	// Authorize runs before the account lookup
	Authorize(ctx context.Context, profile *identity.Profile) error
	// BeforeProvision runs before an unknown SSO user is created
	BeforeProvision(ctx context.Context, profile *identity.Profile) error
}

// DomainPolicy admits GSuite accounts whose hosted domain is on the list.
// An empty list admits every hosted domain.
type DomainPolicy struct {
	domains map[string]struct{}
}

// NewDomainPolicy creates a policy for the given hosted domains
func NewDomainPolicy(domains []string) *DomainPolicy {
	p := &DomainPolicy{domains: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			p.domains[d] = struct{}{}
		}
	}
	return p
}

// Authorize implements SSOPolicy
func (p *DomainPolicy) Authorize(ctx context.Context, profile *identity.Profile) error {
	if profile.HostedDomain == "" {
		return apperror.NotExist(keySSOLogin)
	}
	if len(p.domains) == 0 {
		return nil
	}
	if _, ok := p.domains[strings.ToLower(profile.HostedDomain)]; !ok {
		return apperror.NotExist(keySSOLogin)
	}
	return nil
}

// BeforeProvision implements SSOPolicy
func (p *DomainPolicy) BeforeProvision(ctx context.Context, profile *identity.Profile) error {
	return nil
}

// Service runs the login channels on top of the credential store
type Service struct {
	tx         repository.Transactor
	accounts   repository.AccountRepository
	thirdParty repository.ThirdPartyLoginRepository
	users      UserCreator
	tokens     *TokenService
	throttle   *Throttle
	hasher     PasswordHasher
	verifiers  identity.Registry
	sso        SSOPolicy
	logger     *zap.Logger
}

// NewService creates a new security service
func NewService(
	tx repository.Transactor,
	accounts repository.AccountRepository,
	thirdParty repository.ThirdPartyLoginRepository,
	users UserCreator,
	tokens *TokenService,
	throttle *Throttle,
	hasher PasswordHasher,
	verifiers identity.Registry,
	sso SSOPolicy,
	logger *zap.Logger,
) *Service {
	return &Service{
		tx:         tx,
		accounts:   accounts,
		thirdParty: thirdParty,
		users:      users,
		tokens:     tokens,
		throttle:   throttle,
		hasher:     hasher,
		verifiers:  verifiers,
		sso:        sso,
		logger:     logger,
	}
}

// issue creates an app token for the account and records the login in the
// transaction carried by ctx
func (s *Service) issue(ctx context.Context, clientIP string, account *models.Account) (string, error) {
	token, err := s.tokens.CreateToken(clientIP, account.Email, models.AudienceApp, account.Type(), account.IsFirstLogin())
	if err != nil {
		return "", apperror.Internal(keyCreateToken, err)
	}
	if err := s.throttle.RecordSuccessfulLogin(ctx, account.ID); err != nil {
		return "", apperror.Internal(keyMarkLogin, err)
	}
	return token, nil
}

// Login authenticates with email and password
func (s *Service) Login(ctx context.Context, clientIP, email, password string) (string, error) {
	var (
		token  string
		failed *models.Account
	)

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		account, err := s.accounts.FindByEmail(ctx, email)
		if err != nil {
			return apperror.InvalidCredentials(keyLogin).Wrap(err)
		}
		if !account.HasPassword() {
			return apperror.InvalidCredentials(keyLogin)
		}
		if s.throttle.IsAccountBlocked(account) {
			return apperror.AccountBlocked(keyLogin)
		}

		if !s.hasher.Verify(*account.Password, password) {
			failed = account
			return apperror.InvalidCredentials(keyLogin)
		}
		if !account.IsActive() {
			return apperror.InactiveUser(keyLogin)
		}
		if !HasRight(account, RightLogin) {
			failed = account
			return apperror.InvalidCredentials(keyLogin)
		}

		token, err = s.issue(ctx, clientIP, account)
		return err
	})

	if failed != nil {
		s.recordWrongAttempt(ctx, failed)
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) recordWrongAttempt(ctx context.Context, account *models.Account) {
	previous := 0
	if account.LoginHistory != nil {
		previous = account.LoginHistory.WrongLoginCount
	}
	if err := s.throttle.RecordWrongAttempt(ctx, previous, account.ID); err != nil {
		s.logger.Warn("failed to record wrong login attempt",
			zap.Int64("account_id", account.ID),
			zap.Error(err),
		)
	}
}

// SignUp creates a customer account and logs it in
func (s *Service) SignUp(ctx context.Context, clientIP string, req models.SignupRequest) (string, error) {
	draft := &models.AccountDraft{
		Email:     strings.TrimSpace(req.Email),
		Password:  &req.Password,
		Status:    models.StatusActive,
		Role:      models.RoleUser,
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
	}

	var token string
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		account, err := s.users.CreateUser(ctx, draft, nil)
		if err != nil {
			return err
		}
		token, err = s.issue(ctx, clientIP, account)
		return err
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// channel describes one provider login flavour
type channel struct {
	key      string
	role     models.RoleName
	eligible func(*models.Account) bool
	policy   SSOPolicy
}

// ThirdPartyLogin signs in a customer with a Google or Facebook token
func (s *Service) ThirdPartyLogin(ctx context.Context, clientIP string, req models.ThirdPartyLoginRequest) (string, error) {
	return s.providerLogin(ctx, clientIP, req.Type, req.Token, channel{
		key:      keyThirdPartyLogin,
		role:     models.RoleUser,
		eligible: (*models.Account).IsCustomer,
	})
}

// SSOLogin signs in a company employee with a GSuite token
func (s *Service) SSOLogin(ctx context.Context, clientIP string, req models.SSOLoginRequest) (string, error) {
	return s.providerLogin(ctx, clientIP, req.Type, req.Token, channel{
		key:      keySSOLogin,
		role:     models.RoleEmployee,
		eligible: (*models.Account).IsCompanyEmployee,
		policy:   s.sso,
	})
}

func (s *Service) providerLogin(ctx context.Context, clientIP string, provider models.LoginProvider, providerToken string, ch channel) (string, error) {
	verifier, ok := s.verifiers.Verifier(provider)
	if !ok {
		return "", apperror.InvalidToken(ch.key)
	}

	profile, err := verifier.Verify(ctx, providerToken)
	if err != nil {
		s.logger.Debug("provider token rejected",
			zap.String("provider", string(provider)),
			zap.Error(err),
		)
		return "", apperror.InvalidCredentials(ch.key).Wrap(err)
	}
	if profile == nil || profile.Email == "" {
		return "", apperror.InvalidToken(ch.key)
	}

	if ch.policy != nil {
		if err := ch.policy.Authorize(ctx, profile); err != nil {
			return "", err
		}
	}

	var token string
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		account, err := s.accounts.FindByEmail(ctx, profile.Email)
		if errors.Is(err, repository.ErrAccountNotFound) {
			account, err = s.provision(ctx, profile, ch)
			if err != nil {
				return err
			}
		} else if err != nil {
			return apperror.Internal(keyFetchUser, err)
		}

		if !account.IsActive() {
			return apperror.InactiveUser(ch.key)
		}
		if !HasRight(account, RightLogin) || !ch.eligible(account) {
			return apperror.NotAllowed(ch.key)
		}

		token, err = s.issue(ctx, clientIP, account)
		if err != nil {
			return err
		}

		err = s.thirdParty.Upsert(ctx, &models.ThirdPartyLogin{
			AccountID:      account.ID,
			SocialID:       profile.SocialID,
			RegisteredFrom: provider,
		})
		if err != nil {
			return apperror.Internal(keySaveThirdParty, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) provision(ctx context.Context, profile *identity.Profile, ch channel) (*models.Account, error) {
	if ch.policy != nil {
		if err := ch.policy.BeforeProvision(ctx, profile); err != nil {
			return nil, err
		}
	}

	draft := &models.AccountDraft{
		Email:         profile.Email,
		Status:        models.StatusActive,
		EmailVerified: true,
		Role:          ch.role,
		FirstName:     optional(profile.FirstName),
		LastName:      optional(profile.LastName),
		ProfilePic:    optional(profile.ProfilePic),
	}

	account, err := s.users.CreateUser(ctx, draft, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("provisioned account from provider login",
		zap.Int64("account_id", account.ID),
		zap.String("role", string(ch.role)),
	)
	return account, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Authenticate parses and validates a bearer token presented from clientIP
func (s *Service) Authenticate(ctx context.Context, clientIP, tokenString string) (*Claims, ValidationResult, error) {
	claims, err := s.tokens.ParseToken(tokenString)
	if err != nil {
		return nil, ValidationResult{}, err
	}
	return claims, s.tokens.ValidateToken(ctx, clientIP, claims), nil
}

// RefreshToken re-issues a token for an authenticated account
func (s *Service) RefreshToken(clientIP string, account *models.Account, audience models.Audience) (string, error) {
	token, err := s.tokens.CreateToken(clientIP, account.Email, audience, account.Type(), false)
	if err != nil {
		return "", apperror.Internal(keyCreateToken, err)
	}
	return token, nil
}
