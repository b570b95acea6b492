package partner

import (
	"context"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/partner"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService handles customer and supplier accounts
type AccountService struct {
	accounts  partner.AccountRepository
	publisher common.EventPublisher
	logger    *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts partner.AccountRepository, publisher common.EventPublisher, logger *zap.Logger) *AccountService {
	return &AccountService{accounts: accounts, publisher: publisher, logger: logger}
}

// List returns a page of accounts
func (s *AccountService) List(ctx context.Context, tenantID uuid.UUID, q ListAccountsQuery) (common.Page[partner.Account], error) {
	f := q.Filter()
	if q.Type != "" {
		f = f.With("type", q.Type)
	}
	items, total, err := s.accounts.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[partner.Account]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns an account by ID
func (s *AccountService) Get(ctx context.Context, tenantID, id uuid.UUID) (*partner.Account, error) {
	return s.accounts.FindByIDForTenant(ctx, tenantID, id)
}

// Create creates a new account
func (s *AccountService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateAccountRequest) (*partner.Account, error) {
	exists, err := s.accounts.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Account with this code already exists")
	}

	account, err := partner.NewAccount(tenantID, req.Code, req.Name, partner.AccountType(req.Type))
	if err != nil {
		return nil, err
	}
	account.CreatedBy = &userID
	account.ContactName = req.ContactName
	account.Email = req.Email
	account.Phone = req.Phone
	account.Address = req.Address
	account.TaxNumber = req.TaxNumber
	account.Notes = req.Notes

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.publisher.TriggerEvent(ctx, tenantID, common.EventAccountCreated, account)
	return account, nil
}

// Update changes the descriptive fields of an account
func (s *AccountService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateAccountRequest) (*partner.Account, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Type != nil {
		t := partner.AccountType(*req.Type)
		if !t.IsValid() {
			return nil, shared.NewDomainError("INVALID_TYPE", "Account type must be customer or supplier")
		}
		account.Type = t
	}
	if req.ContactName != nil {
		account.ContactName = *req.ContactName
	}
	if req.Email != nil {
		account.Email = *req.Email
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}
	if req.Address != nil {
		account.Address = *req.Address
	}
	if req.TaxNumber != nil {
		account.TaxNumber = *req.TaxNumber
	}
	if req.Notes != nil {
		account.Notes = *req.Notes
	}
	account.Touch()

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes an account with a settled balance
func (s *AccountService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := account.CanDelete(); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		return err
	}
	s.logger.Info("Account deleted", zap.String("tenant_id", tenantID.String()), zap.String("account_id", id.String()))
	return nil
}
