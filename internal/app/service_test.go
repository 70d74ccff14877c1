package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/paydesk/deposit-service/internal/domain"
	"github.com/paydesk/deposit-service/internal/store"
	"github.com/paydesk/deposit-service/pkg/rabbitmq"
)

// mockRepository implements store.Repository with overridable hooks. Methods
// without a hook return zero values so tests only wire what they exercise.
type mockRepository struct {
	createDepositFn         func(ctx context.Context, deposit *domain.Deposit, applyLimit bool) error
	findDepositByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Deposit, error)
	listDepositsFn          func(ctx context.Context, filter domain.DepositFilter, opts domain.ListOptions) (domain.Page[domain.EnrichedDeposit], error)
	projectFn               func(ctx context.Context, filter domain.DepositFilter) ([]domain.StatusAmount, error)
	updateDepositFn         func(ctx context.Context, id uuid.UUID, payload domain.UpdateDepositPayload) (*domain.Deposit, error)
	deleteDepositFn         func(ctx context.Context, id uuid.UUID) (bool, error)
	createInstitutionUserFn func(ctx context.Context, user *domain.InstitutionUser) error
	findActiveDealerFn      func(ctx context.Context) (*domain.Dealer, error)
	firstMethodByUserFn     func(ctx context.Context, userID uuid.UUID) (*domain.PaymentMethod, error)
	tightestFitFn           func(ctx context.Context, amount float64, typeID uuid.UUID) (*domain.PaymentMethod, error)
	findDealerByUserIDFn    func(ctx context.Context, userID uuid.UUID) (*domain.Dealer, error)
}

func (m *mockRepository) CreateDeposit(ctx context.Context, deposit *domain.Deposit, applyLimit bool) error {
	if m.createDepositFn != nil {
		return m.createDepositFn(ctx, deposit, applyLimit)
	}
	return nil
}

func (m *mockRepository) FindDepositByID(ctx context.Context, id uuid.UUID) (*domain.Deposit, error) {
	if m.findDepositByIDFn != nil {
		return m.findDepositByIDFn(ctx, id)
	}
	return nil, store.ErrDepositNotFound
}

func (m *mockRepository) ListDeposits(ctx context.Context, filter domain.DepositFilter, opts domain.ListOptions) (domain.Page[domain.EnrichedDeposit], error) {
	if m.listDepositsFn != nil {
		return m.listDepositsFn(ctx, filter, opts)
	}
	return domain.Page[domain.EnrichedDeposit]{}, nil
}

func (m *mockRepository) ProjectDepositStatusAmounts(ctx context.Context, filter domain.DepositFilter) ([]domain.StatusAmount, error) {
	if m.projectFn != nil {
		return m.projectFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockRepository) UpdateDeposit(ctx context.Context, id uuid.UUID, payload domain.UpdateDepositPayload) (*domain.Deposit, error) {
	if m.updateDepositFn != nil {
		return m.updateDepositFn(ctx, id, payload)
	}
	return nil, store.ErrDepositNotFound
}

func (m *mockRepository) DeleteDeposit(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.deleteDepositFn != nil {
		return m.deleteDepositFn(ctx, id)
	}
	return false, nil
}

func (m *mockRepository) FindTightestFitPaymentMethod(ctx context.Context, amount float64, typeID uuid.UUID) (*domain.PaymentMethod, error) {
	if m.tightestFitFn != nil {
		return m.tightestFitFn(ctx, amount, typeID)
	}
	return nil, store.ErrPaymentMethodNotFound
}

func (m *mockRepository) FindActiveWithdrawalDealer(ctx context.Context) (*domain.Dealer, error) {
	if m.findActiveDealerFn != nil {
		return m.findActiveDealerFn(ctx)
	}
	return nil, store.ErrNoWithdrawalDealerAvailable
}

func (m *mockRepository) FindFirstPaymentMethodByUserID(ctx context.Context, userID uuid.UUID) (*domain.PaymentMethod, error) {
	if m.firstMethodByUserFn != nil {
		return m.firstMethodByUserFn(ctx, userID)
	}
	return nil, store.ErrPaymentMethodNotFound
}

func (m *mockRepository) FindDealerByUserID(ctx context.Context, userID uuid.UUID) (*domain.Dealer, error) {
	if m.findDealerByUserIDFn != nil {
		return m.findDealerByUserIDFn(ctx, userID)
	}
	return nil, store.ErrDealerNotFound
}

func (m *mockRepository) CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	return nil
}

func (m *mockRepository) FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error) {
	return nil, store.ErrPaymentMethodNotFound
}

func (m *mockRepository) ListPaymentMethods(ctx context.Context, ownerID *uuid.UUID, opts domain.ListOptions) (domain.Page[domain.PaymentMethod], error) {
	return domain.Page[domain.PaymentMethod]{}, nil
}

func (m *mockRepository) UpdatePaymentMethod(ctx context.Context, id uuid.UUID, payload domain.UpdatePaymentMethodPayload) (*domain.PaymentMethod, error) {
	return nil, store.ErrPaymentMethodNotFound
}

func (m *mockRepository) DeletePaymentMethod(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (m *mockRepository) CreatePaymentMethodType(ctx context.Context, methodType *domain.PaymentMethodType) error {
	return nil
}

func (m *mockRepository) FindPaymentMethodTypeByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethodType, error) {
	return nil, store.ErrPaymentMethodTypeNotFound
}

func (m *mockRepository) ListPaymentMethodTypes(ctx context.Context, opts domain.ListOptions) (domain.Page[domain.PaymentMethodType], error) {
	return domain.Page[domain.PaymentMethodType]{}, nil
}

func (m *mockRepository) DeletePaymentMethodType(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (m *mockRepository) FindPersonalByID(ctx context.Context, id uuid.UUID) (*domain.Personal, error) {
	return nil, store.ErrPersonalNotFound
}

func (m *mockRepository) FindDealerByID(ctx context.Context, id uuid.UUID) (*domain.Dealer, error) {
	return nil, store.ErrDealerNotFound
}

func (m *mockRepository) FindInstitutionByID(ctx context.Context, id uuid.UUID) (*domain.Institution, error) {
	return nil, store.ErrInstitutionNotFound
}

func (m *mockRepository) CreateInstitutionUser(ctx context.Context, user *domain.InstitutionUser) error {
	if m.createInstitutionUserFn != nil {
		return m.createInstitutionUserFn(ctx, user)
	}
	return nil
}

func (m *mockRepository) FindAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID) (any, error) {
	return nil, store.ErrAccountNotFound
}

func (m *mockRepository) UpdateAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID, payload domain.UpdateAccountPayload) (any, error) {
	return nil, store.ErrAccountNotFound
}

func (m *mockRepository) DeleteAccount(ctx context.Context, model domain.AccountModel, id uuid.UUID) (bool, error) {
	return false, nil
}

// recordingPublisher captures deposit events instead of talking to a broker.
type recordingPublisher struct {
	events []rabbitmq.DepositEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	return nil
}

func (p *recordingPublisher) PublishDepositEvent(ctx context.Context, event rabbitmq.DepositEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() {}

func ptrBool(value bool) *bool {
	return &value
}

func TestCreateDepositDefaultsToPending(t *testing.T) {
	var captured *domain.Deposit
	var capturedApplyLimit bool
	repo := &mockRepository{
		createDepositFn: func(ctx context.Context, deposit *domain.Deposit, applyLimit bool) error {
			captured = deposit
			capturedApplyLimit = applyLimit
			deposit.TransactionID = 1000
			return nil
		},
	}
	publisher := &recordingPublisher{}
	service := NewService(repo, publisher)

	deposit, err := service.CreateDeposit(context.Background(), domain.CreateDepositRequest{
		Name:   "A. Sender",
		Amount: 250,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured == nil {
		t.Fatal("expected deposit to be persisted")
	}
	if deposit.Status != domain.StatusPending {
		t.Fatalf("expected default status PENDING, got %d", deposit.Status)
	}
	if deposit.TransactionType != domain.TransactionDeposit {
		t.Fatalf("expected default transaction type DEPOSIT, got %d", deposit.TransactionType)
	}
	if !deposit.IsEndUserTransaction {
		t.Fatal("expected end-user flag to default to true")
	}
	if capturedApplyLimit {
		t.Fatal("expected no limit consumption without a payment method reference")
	}
	if !strings.HasPrefix(deposit.Username, "user_") {
		t.Fatalf("expected minted username, got %q", deposit.Username)
	}
	if len(publisher.events) != 1 || publisher.events[0].Action != "created" {
		t.Fatalf("expected one created event, got %+v", publisher.events)
	}
}

func TestCreateDepositOperatorRecordsStartApproved(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo, &recordingPublisher{})

	deposit, err := service.CreateDeposit(context.Background(), domain.CreateDepositRequest{
		Amount:               100,
		IsEndUserTransaction: ptrBool(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deposit.Status != domain.StatusApproved {
		t.Fatalf("expected APPROVED for explicit non-end-user record, got %d", deposit.Status)
	}
}

func TestCreateDepositAppliesLimitOnlyForDeposits(t *testing.T) {
	methodID := uuid.New()
	withdrawal := domain.TransactionWithdrawal

	tests := []struct {
		name            string
		transactionType *domain.TransactionType
		wantApplyLimit  bool
	}{
		{"deposit consumes limit", nil, true},
		{"withdrawal never consumes limit", &withdrawal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotApplyLimit bool
			repo := &mockRepository{
				createDepositFn: func(ctx context.Context, deposit *domain.Deposit, applyLimit bool) error {
					gotApplyLimit = applyLimit
					return nil
				},
			}
			service := NewService(repo, &recordingPublisher{})

			_, err := service.CreateDeposit(context.Background(), domain.CreateDepositRequest{
				Amount:          100,
				PaymentMethodID: &methodID,
				TransactionType: tt.transactionType,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotApplyLimit != tt.wantApplyLimit {
				t.Fatalf("expected applyLimit=%t, got %t", tt.wantApplyLimit, gotApplyLimit)
			}
		})
	}
}

func TestCreateDepositInsufficientLimitFailsCreation(t *testing.T) {
	methodID := uuid.New()
	institutionUserCreated := false
	repo := &mockRepository{
		createDepositFn: func(ctx context.Context, deposit *domain.Deposit, applyLimit bool) error {
			return store.ErrPaymentMethodLimitExceeded
		},
		createInstitutionUserFn: func(ctx context.Context, user *domain.InstitutionUser) error {
			institutionUserCreated = true
			return nil
		},
	}
	publisher := &recordingPublisher{}
	service := NewService(repo, publisher)

	_, err := service.CreateDeposit(context.Background(), domain.CreateDepositRequest{
		Amount:          5000,
		PaymentMethodID: &methodID,
	})
	if !errors.Is(err, store.ErrPaymentMethodLimitExceeded) {
		t.Fatalf("expected limit exceeded error, got %v", err)
	}
	if institutionUserCreated {
		t.Fatal("expected no institution user after a failed creation")
	}
	if len(publisher.events) != 0 {
		t.Fatal("expected no event after a failed creation")
	}
}

func TestCreateDepositMintsInstitutionUser(t *testing.T) {
	institutionID := uuid.New()
	var mintedUser *domain.InstitutionUser
	repo := &mockRepository{
		createInstitutionUserFn: func(ctx context.Context, user *domain.InstitutionUser) error {
			mintedUser = user
			return nil
		},
	}
	service := NewService(repo, &recordingPublisher{})

	deposit, err := service.CreateDeposit(context.Background(), domain.CreateDepositRequest{
		Amount:        75,
		InstitutionID: &institutionID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mintedUser == nil {
		t.Fatal("expected an institution user to be created")
	}
	if mintedUser.Username != deposit.Username {
		t.Fatalf("expected institution user to carry the deposit username %q, got %q", deposit.Username, mintedUser.Username)
	}
	if mintedUser.InstitutionID == nil || *mintedUser.InstitutionID != institutionID {
		t.Fatal("expected institution user bound to the request's institution")
	}
	if mintedUser.Type != domain.InstitutionUserType {
		t.Fatalf("expected institution-user type, got %d", mintedUser.Type)
	}
}

func TestUpdateDepositPublishesEvent(t *testing.T) {
	id := uuid.New()
	existing := &domain.Deposit{ID: id, Status: domain.StatusPending}
	approved := domain.StatusApproved
	repo := &mockRepository{
		findDepositByIDFn: func(ctx context.Context, lookupID uuid.UUID) (*domain.Deposit, error) {
			return existing, nil
		},
		updateDepositFn: func(ctx context.Context, lookupID uuid.UUID, payload domain.UpdateDepositPayload) (*domain.Deposit, error) {
			updated := *existing
			updated.Status = *payload.Status
			return &updated, nil
		},
	}
	publisher := &recordingPublisher{}
	service := NewService(repo, publisher)

	updated, err := service.UpdateDeposit(context.Background(), id, domain.UpdateDepositPayload{Status: &approved})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusApproved {
		t.Fatalf("expected APPROVED after update, got %d", updated.Status)
	}
	if len(publisher.events) != 1 || publisher.events[0].Action != "updated" {
		t.Fatalf("expected one updated event, got %+v", publisher.events)
	}
}

func TestDeleteDepositNotFound(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo, &recordingPublisher{})

	err := service.DeleteDeposit(context.Background(), uuid.New())
	if !errors.Is(err, store.ErrDepositNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetDealerWithdrawalAccountToleratesMissingMethod(t *testing.T) {
	dealerUserID := uuid.New()
	dealer := &domain.Dealer{ID: uuid.New(), UserID: &dealerUserID, WithdrawalStatus: domain.StateActive}
	repo := &mockRepository{
		findActiveDealerFn: func(ctx context.Context) (*domain.Dealer, error) {
			return dealer, nil
		},
	}
	service := NewService(repo, &recordingPublisher{})

	account, err := service.GetDealerWithdrawalAccount(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.AccountHolder == nil || account.AccountHolder.ID != dealer.ID {
		t.Fatal("expected the active dealer as account holder")
	}
	if account.PaymentMethod != nil {
		t.Fatal("expected nil payment method when the dealer has none")
	}
}

func TestGetPaymentAccountPairsMethodWithDealer(t *testing.T) {
	ownerID := uuid.New()
	typeID := uuid.New()
	method := &domain.PaymentMethod{ID: uuid.New(), UserID: &ownerID, TotalLimitLeft: 400}
	dealer := &domain.Dealer{ID: uuid.New(), UserID: &ownerID}
	repo := &mockRepository{
		tightestFitFn: func(ctx context.Context, amount float64, lookupTypeID uuid.UUID) (*domain.PaymentMethod, error) {
			if amount != 150 || lookupTypeID != typeID {
				t.Fatalf("unexpected lookup arguments: amount=%f typeID=%s", amount, lookupTypeID)
			}
			return method, nil
		},
		findDealerByUserIDFn: func(ctx context.Context, userID uuid.UUID) (*domain.Dealer, error) {
			return dealer, nil
		},
	}
	service := NewService(repo, &recordingPublisher{})

	account, err := service.GetPaymentAccount(context.Background(), 150, typeID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.PaymentMethod == nil || account.PaymentMethod.ID != method.ID {
		t.Fatal("expected the tightest-fit method")
	}
	if account.AccountHolder == nil || account.AccountHolder.ID != dealer.ID {
		t.Fatal("expected the holding dealer")
	}
}
