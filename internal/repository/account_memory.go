package repository

import (
	"context"
	"sync"
	"time"

	"supplyhub/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryAccountRepository is an in-memory implementation of
// AccountRepository. Use it for development and tests; it mirrors the
// MongoDB implementation's semantics, including idempotent pulls and
// scope-first lookups.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*model.Account // keyed by hex object id
}

// NewMemoryAccountRepository creates an empty in-memory repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[string]*model.Account),
	}
}

// CreateAccount inserts a new account and assigns its id.
func (r *MemoryAccountRepository) CreateAccount(ctx context.Context, acc *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == acc.Email {
			return ErrEmailTaken
		}
	}

	now := time.Now().UTC()
	acc.CreatedAt = now
	acc.UpdatedAt = now
	if acc.ID.IsZero() {
		acc.ID = primitive.NewObjectID()
	}

	stored := cloneAccount(acc)
	r.accounts[acc.ID.Hex()] = stored
	return nil
}

// AccountByEmail fetches an account by its unique email.
func (r *MemoryAccountRepository) AccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, acc := range r.accounts {
		if acc.Email == email {
			return cloneAccount(acc), nil
		}
	}
	return nil, ErrNotFound
}

// AccountByID fetches an account by id.
func (r *MemoryAccountRepository) AccountByID(ctx context.Context, id string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAccount(acc), nil
}

// RecordLogin stamps last_login and appends an ip history entry.
func (r *MemoryAccountRepository) RecordLogin(ctx context.Context, id, ip, userAgent string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}

	now := time.Now().UTC()
	acc.LastLogin = &now
	acc.UpdatedAt = now
	acc.IPHistory = append(acc.IPHistory, model.IPRecord{IP: ip, Date: now, UserAgent: userAgent})
	return nil
}

// UpdateProfile applies an allow-listed profile patch.
func (r *MemoryAccountRepository) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.TelegramID != nil {
		acc.TelegramID = *patch.TelegramID
	}
	if patch.NotificationEnabled != nil {
		acc.NotificationEnabled = *patch.NotificationEnabled
	}
	if patch.NotificationSettings != nil {
		acc.NotificationSettings = patch.NotificationSettings
	}
	acc.UpdatedAt = time.Now().UTC()

	return cloneAccount(acc), nil
}

// ReplaceSellers overwrites the account's seller list wholesale.
func (r *MemoryAccountRepository) ReplaceSellers(ctx context.Context, id string, sellers []model.Seller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}

	acc.Sellers = cloneSellers(sellers)
	acc.UpdatedAt = time.Now().UTC()
	return nil
}

// Sellers returns the account's seller list in insertion order.
func (r *MemoryAccountRepository) Sellers(ctx context.Context, accountID string) ([]model.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[accountID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSellers(acc.Sellers), nil
}

// SellerByID returns one seller of the account.
func (r *MemoryAccountRepository) SellerByID(ctx context.Context, accountID, sellerID string) (*model.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[accountID]
	if !ok {
		return nil, ErrNotFound
	}

	for i := range acc.Sellers {
		if acc.Sellers[i].SellerID == sellerID {
			s := cloneSeller(acc.Sellers[i])
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

// AddSeller appends a seller to the account's list.
func (r *MemoryAccountRepository) AddSeller(ctx context.Context, accountID string, s model.Seller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[accountID]
	if !ok {
		return ErrNotFound
	}

	acc.Sellers = append(acc.Sellers, cloneSeller(s))
	acc.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateSeller replaces the id/name pair of the seller matched by its
// pre-edit id, keeping nested supplies.
func (r *MemoryAccountRepository) UpdateSeller(ctx context.Context, accountID, originalID string, s model.Seller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[accountID]
	if !ok {
		return ErrNotFound
	}

	for i := range acc.Sellers {
		if acc.Sellers[i].SellerID == originalID {
			acc.Sellers[i].SellerID = s.SellerID
			acc.Sellers[i].SellerName = s.SellerName
			acc.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}

// RemoveSeller pulls a seller from the account's list; pulling an absent id
// is a successful no-op.
func (r *MemoryAccountRepository) RemoveSeller(ctx context.Context, accountID, sellerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[accountID]
	if !ok {
		return ErrNotFound
	}

	kept := acc.Sellers[:0]
	for _, s := range acc.Sellers {
		if s.SellerID != sellerID {
			kept = append(kept, s)
		}
	}
	acc.Sellers = kept
	acc.UpdatedAt = time.Now().UTC()
	return nil
}

// FindSellerOwner looks across all other accounts for a seller with the
// given id.
func (r *MemoryAccountRepository) FindSellerOwner(ctx context.Context, sellerID, excludeAccountID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, acc := range r.accounts {
		if id == excludeAccountID {
			continue
		}
		for _, s := range acc.Sellers {
			if s.SellerID == sellerID {
				return s.SellerName, true, nil
			}
		}
	}
	return "", false, nil
}

// AddSupply appends a supply to the scoped seller.
func (r *MemoryAccountRepository) AddSupply(ctx context.Context, accountID, sellerID string, s model.Supply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seller, ok := r.findSeller(accountID, sellerID)
	if !ok {
		return ErrNotFound
	}

	seller.Supplies = append(seller.Supplies, cloneSupply(s))
	return nil
}

// SupplyByID returns one supply of the scoped seller.
func (r *MemoryAccountRepository) SupplyByID(ctx context.Context, accountID, sellerID, supplyID string) (*model.Supply, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seller, ok := r.findSeller(accountID, sellerID)
	if !ok {
		return nil, ErrNotFound
	}

	for i := range seller.Supplies {
		if seller.Supplies[i].ID.Hex() == supplyID {
			s := cloneSupply(seller.Supplies[i])
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateSupply applies the whitelist patch to the matched supply.
func (r *MemoryAccountRepository) UpdateSupply(ctx context.Context, accountID, sellerID, supplyID string, patch model.SupplyPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seller, ok := r.findSeller(accountID, sellerID)
	if !ok {
		return ErrNotFound
	}

	for i := range seller.Supplies {
		if seller.Supplies[i].ID.Hex() != supplyID {
			continue
		}
		if patch.Status != nil {
			seller.Supplies[i].Status = cloneStatus(*patch.Status)
		}
		if patch.BookingSettings != nil {
			seller.Supplies[i].BookingSettings = cloneBookingSettings(*patch.BookingSettings)
		}
		seller.Supplies[i].UpdatedAt = time.Now().UTC()
		return nil
	}
	// Seller scope resolved but the supply id is absent. The MongoDB
	// arrayFilters update matches the account document regardless, so this
	// is not a miss at the update stage; the re-read reports it.
	return nil
}

// RemoveSupply pulls a supply from the scoped seller; pulling an absent
// supply id is a successful no-op.
func (r *MemoryAccountRepository) RemoveSupply(ctx context.Context, accountID, sellerID, supplyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seller, ok := r.findSeller(accountID, sellerID)
	if !ok {
		return ErrNotFound
	}

	kept := seller.Supplies[:0]
	for _, s := range seller.Supplies {
		if s.ID.Hex() != supplyID {
			kept = append(kept, s)
		}
	}
	seller.Supplies = kept
	return nil
}

// Ping always succeeds for the in-memory store.
func (r *MemoryAccountRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (r *MemoryAccountRepository) Close() error {
	return nil
}

// findSeller returns a pointer into the stored account. Callers must hold
// the lock.
func (r *MemoryAccountRepository) findSeller(accountID, sellerID string) (*model.Seller, bool) {
	acc, ok := r.accounts[accountID]
	if !ok {
		return nil, false
	}
	for i := range acc.Sellers {
		if acc.Sellers[i].SellerID == sellerID {
			return &acc.Sellers[i], true
		}
	}
	return nil, false
}

func cloneAccount(acc *model.Account) *model.Account {
	out := *acc
	out.Sellers = cloneSellers(acc.Sellers)
	out.IPHistory = append([]model.IPRecord(nil), acc.IPHistory...)
	out.PaymentHistory = append([]model.PaymentRecord(nil), acc.PaymentHistory...)
	if acc.NotificationSettings != nil {
		out.NotificationSettings = make(map[string]interface{}, len(acc.NotificationSettings))
		for k, v := range acc.NotificationSettings {
			out.NotificationSettings[k] = v
		}
	}
	return &out
}

func cloneSellers(sellers []model.Seller) []model.Seller {
	if sellers == nil {
		return []model.Seller{}
	}
	out := make([]model.Seller, len(sellers))
	for i, s := range sellers {
		out[i] = cloneSeller(s)
	}
	return out
}

func cloneSeller(s model.Seller) model.Seller {
	out := s
	out.Supplies = make([]model.Supply, len(s.Supplies))
	for i, sup := range s.Supplies {
		out.Supplies[i] = cloneSupply(sup)
	}
	return out
}

func cloneSupply(s model.Supply) model.Supply {
	out := s
	out.BookingSettings = cloneBookingSettings(s.BookingSettings)
	out.Status = cloneStatus(s.Status)
	return out
}

func cloneBookingSettings(b model.BookingSettings) model.BookingSettings {
	out := b
	out.TargetDates = append([]string(nil), b.TargetDates...)
	return out
}

func cloneStatus(st model.SupplyStatus) model.SupplyStatus {
	out := st
	if st.SupplyID != nil {
		id := *st.SupplyID
		out.SupplyID = &id
	}
	return out
}
