package finance

import (
	"context"
	"errors"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/finance"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionService posts income and expense against cash registers and
// accounts
type TransactionService struct {
	transactions finance.TransactionRepository
	txScope      common.TransactionScope
	publisher    common.EventPublisher
	logger       *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactions finance.TransactionRepository,
	txScope common.TransactionScope,
	publisher common.EventPublisher,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		txScope:      txScope,
		publisher:    publisher,
		logger:       logger,
	}
}

// List returns a page of transactions
func (s *TransactionService) List(ctx context.Context, tenantID uuid.UUID, q ListTransactionsQuery) (common.Page[finance.Transaction], error) {
	f := q.Filter().
		With("type", q.Type).
		With("cash_register_id", q.CashRegisterID).
		With("account_id", q.AccountID).
		With("category", q.Category)
	f.From, f.To = q.From, q.To
	items, total, err := s.transactions.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[finance.Transaction]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns a transaction by ID
func (s *TransactionService) Get(ctx context.Context, tenantID, id uuid.UUID) (*finance.Transaction, error) {
	return s.transactions.FindByIDForTenant(ctx, tenantID, id)
}

// Create posts a transaction. The register balance and, when given, the
// account balance change in the same database transaction as the insert.
func (s *TransactionService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateTransactionRequest) (*finance.Transaction, error) {
	txn, err := finance.NewTransaction(tenantID, userID, finance.TransactionType(req.Type), req.Amount, req.CashRegisterID, req.AccountID)
	if err != nil {
		return nil, err
	}
	txn.SetDetails(req.Category, req.Description, req.TransactionDate)

	err = s.txScope.Execute(ctx, func(repos common.Repositories) error {
		if err := s.checkRegister(ctx, repos, tenantID, txn.CashRegisterID); err != nil {
			return err
		}
		if err := repos.Transactions().Create(ctx, txn); err != nil {
			return err
		}
		return s.post(ctx, repos, tenantID, txn, false)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction posted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("transaction_id", txn.ID.String()),
		zap.String("type", string(txn.Type)),
		zap.String("amount", txn.Amount.String()))
	s.publisher.TriggerEvent(ctx, tenantID, common.EventTransactionCreated, txn)
	return txn, nil
}

// Delete removes a transaction and reverses its balance effects in the same
// database transaction
func (s *TransactionService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	var deleted *finance.Transaction
	err := s.txScope.Execute(ctx, func(repos common.Repositories) error {
		txn, err := repos.Transactions().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := repos.Transactions().Delete(ctx, txn.ID); err != nil {
			return err
		}
		deleted = txn
		return s.post(ctx, repos, tenantID, txn, true)
	})
	if err != nil {
		return err
	}
	s.publisher.TriggerEvent(ctx, tenantID, common.EventTransactionDeleted, deleted)
	return nil
}

// post applies the register and account deltas of txn, negated when reverse
func (s *TransactionService) post(ctx context.Context, repos common.Repositories, tenantID uuid.UUID, txn *finance.Transaction, reverse bool) error {
	registerDelta, accountDelta := txn.RegisterDelta(), txn.AccountDelta()
	if reverse {
		registerDelta, accountDelta = registerDelta.Neg(), accountDelta.Neg()
	}
	if err := repos.CashRegisters().AdjustBalance(ctx, txn.CashRegisterID, registerDelta); err != nil {
		return err
	}
	if txn.AccountID == nil {
		return nil
	}
	if reverse {
		err := repos.Accounts().AdjustBalance(ctx, *txn.AccountID, accountDelta)
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Account of deleted transaction no longer exists",
				zap.String("transaction_id", txn.ID.String()))
			return nil
		}
		return err
	}
	return common.PostBalance(ctx, repos, tenantID, *txn.AccountID, accountDelta)
}

func (s *TransactionService) checkRegister(ctx context.Context, repos common.Repositories, tenantID, registerID uuid.UUID) error {
	register, err := repos.CashRegisters().FindByIDForTenant(ctx, tenantID, registerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Cash register " + registerID.String())
		}
		return err
	}
	if !register.IsActive {
		return shared.NewBusinessRuleError("Cash register " + register.Name + " is inactive")
	}
	return nil
}
