package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"authcore/internal/models"
	"authcore/internal/repository"
)

var seededRoles = map[models.RoleName]int{
	models.RoleSuperAdmin:   1,
	models.RoleAdmin:        2,
	models.RoleCompanyAdmin: 3,
	models.RoleEmployee:     4,
	models.RoleUser:         5,
}

// MemoryStore keeps accounts, login history and provider links in memory.
// It implements the account, login history and third-party login
// repositories. Writes are not rolled back with the surrounding transaction.
type MemoryStore struct {
	mu         sync.Mutex
	nextID     int64
	accounts   map[int64]*models.Account
	thirdParty map[string]models.ThirdPartyLogin

	// Failures makes the named operation return the given error
	Failures map[string]error
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:   make(map[int64]*models.Account),
		thirdParty: make(map[string]models.ThirdPartyLogin),
		Failures:   make(map[string]error),
	}
}

// Fail makes op return err until cleared
func (m *MemoryStore) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures[op] = err
}

func (m *MemoryStore) failure(op string) error {
	return m.Failures[op]
}

// Seed inserts an account as is, assigning an id when it has none
func (m *MemoryStore) Seed(account *models.Account) *models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account.ID == 0 {
		m.nextID++
		account.ID = m.nextID
	} else if account.ID > m.nextID {
		m.nextID = account.ID
	}
	for i, r := range account.Roles {
		if r.ID == 0 {
			account.Roles[i].ID = seededRoles[r.Name]
		}
	}
	m.accounts[account.ID] = cloneAccount(account)
	return account
}

// Account returns a copy of the stored account, nil when absent
func (m *MemoryStore) Account(id int64) *models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		return cloneAccount(a)
	}
	return nil
}

// ThirdPartyLogins returns the stored provider links of an account
func (m *MemoryStore) ThirdPartyLogins(accountID int64) []models.ThirdPartyLogin {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ThirdPartyLogin
	for _, l := range m.thirdParty {
		if l.AccountID == accountID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredFrom < out[j].RegisteredFrom })
	return out
}

func cloneAccount(a *models.Account) *models.Account {
	c := *a
	c.Roles = append([]models.Role(nil), a.Roles...)
	if a.LoginHistory != nil {
		h := *a.LoginHistory
		c.LoginHistory = &h
	}
	return &c
}

func (m *MemoryStore) byEmail(email string, excludeID int64) *models.Account {
	for _, a := range m.accounts {
		if a.ID != excludeID && strings.EqualFold(a.Email, email) {
			return a
		}
	}
	return nil
}

func (m *MemoryStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("FindByEmail"); err != nil {
		return nil, err
	}
	a := m.byEmail(email, 0)
	if a == nil {
		return nil, repository.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("FindByID"); err != nil {
		return nil, err
	}
	a, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (m *MemoryStore) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ExistsByEmail"); err != nil {
		return false, err
	}
	return m.byEmail(email, excludeID) != nil, nil
}

func (m *MemoryStore) Create(ctx context.Context, draft *models.AccountDraft, createdBy *int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("Create"); err != nil {
		return 0, err
	}
	if m.byEmail(draft.Email, 0) != nil {
		return 0, repository.ErrDuplicateEntry
	}

	status := draft.Status
	if status == "" {
		status = models.StatusActive
	}

	m.nextID++
	m.accounts[m.nextID] = &models.Account{
		ID:            m.nextID,
		Email:         draft.Email,
		Password:      draft.Password,
		Status:        status,
		EmailVerified: draft.EmailVerified,
		CreatedBy:     createdBy,
		CreatedOn:     time.Now(),
	}
	return m.nextID, nil
}

func (m *MemoryStore) CreateDetails(ctx context.Context, accountID int64, draft *models.AccountDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateDetails"); err != nil {
		return err
	}
	a, ok := m.accounts[accountID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.Details = models.AccountDetails{
		FirstName:   draft.FirstName,
		LastName:    draft.LastName,
		DialCode:    draft.DialCode,
		Phone:       draft.Phone,
		DateOfBirth: draft.DateOfBirth,
		ProfilePic:  draft.ProfilePic,
	}
	return nil
}

func (m *MemoryStore) AttachRole(ctx context.Context, accountID int64, role models.RoleName) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("AttachRole"); err != nil {
		return err
	}
	id, ok := seededRoles[role]
	if !ok {
		return fmt.Errorf("%w: %s", repository.ErrRoleNotFound, role)
	}
	a, ok := m.accounts[accountID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	if !a.HasRole(role) {
		a.Roles = append(a.Roles, models.Role{ID: id, Name: role})
	}
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, draft *models.AccountDraft, updatedBy *int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("Update"); err != nil {
		return 0, err
	}
	a, ok := m.accounts[draft.ID]
	if !ok {
		return 0, nil
	}
	if draft.Email != "" {
		if m.byEmail(draft.Email, draft.ID) != nil {
			return 0, repository.ErrDuplicateEntry
		}
		a.Email = draft.Email
	}
	if draft.Password != nil {
		a.Password = draft.Password
	}
	if draft.Status != "" {
		a.Status = draft.Status
	}
	now := time.Now()
	a.UpdatedBy = updatedBy
	a.UpdatedOn = &now
	return 1, nil
}

func (m *MemoryStore) UpdateDetails(ctx context.Context, draft *models.AccountDraft) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("UpdateDetails"); err != nil {
		return 0, err
	}
	a, ok := m.accounts[draft.ID]
	if !ok {
		return 0, nil
	}
	d := &a.Details
	if draft.FirstName != nil {
		d.FirstName = draft.FirstName
	}
	if draft.LastName != nil {
		d.LastName = draft.LastName
	}
	if draft.DialCode != nil {
		d.DialCode = draft.DialCode
	}
	if draft.Phone != nil {
		d.Phone = draft.Phone
	}
	if draft.DateOfBirth != nil {
		d.DateOfBirth = draft.DateOfBirth
	}
	if draft.ProfilePic != nil {
		d.ProfilePic = draft.ProfilePic
	}
	return 1, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("Delete"); err != nil {
		return 0, err
	}
	if _, ok := m.accounts[id]; !ok {
		return 0, nil
	}
	delete(m.accounts, id)
	for k, l := range m.thirdParty {
		if l.AccountID == id {
			delete(m.thirdParty, k)
		}
	}
	return 1, nil
}

func (m *MemoryStore) history(accountID int64) (*models.LoginHistory, error) {
	a, ok := m.accounts[accountID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	if a.LoginHistory == nil {
		a.LoginHistory = &models.LoginHistory{AccountID: accountID}
	}
	return a.LoginHistory, nil
}

func (m *MemoryStore) MarkLogin(ctx context.Context, accountID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("MarkLogin"); err != nil {
		return err
	}
	h, err := m.history(accountID)
	if err != nil {
		return err
	}
	h.LastLogin = &at
	h.WrongLoginCount = 0
	h.LastWrongLoginAttempt = nil
	return nil
}

func (m *MemoryStore) MarkWrongAttempt(ctx context.Context, accountID int64, count int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("MarkWrongAttempt"); err != nil {
		return err
	}
	h, err := m.history(accountID)
	if err != nil {
		return err
	}
	h.WrongLoginCount = count
	h.LastWrongLoginAttempt = &at
	return nil
}

func (m *MemoryStore) ResetExpiredBlocks(ctx context.Context, maxCount int, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ResetExpiredBlocks"); err != nil {
		return 0, err
	}
	var reset int64
	for _, a := range m.accounts {
		h := a.LoginHistory
		if h == nil || h.LastWrongLoginAttempt == nil {
			continue
		}
		if h.WrongLoginCount >= maxCount && !h.LastWrongLoginAttempt.After(before) {
			h.WrongLoginCount = 0
			reset++
		}
	}
	return reset, nil
}

func (m *MemoryStore) Upsert(ctx context.Context, login *models.ThirdPartyLogin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("Upsert"); err != nil {
		return err
	}
	key := fmt.Sprintf("%d/%s", login.AccountID, login.RegisteredFrom)
	if existing, ok := m.thirdParty[key]; ok {
		login.CreatedOn = existing.CreatedOn
	} else {
		login.CreatedOn = time.Now()
	}
	m.thirdParty[key] = *login
	return nil
}

var (
	_ repository.AccountRepository         = (*MemoryStore)(nil)
	_ repository.LoginHistoryRepository    = (*MemoryStore)(nil)
	_ repository.ThirdPartyLoginRepository = (*MemoryStore)(nil)
)
