package repository

import (
	"context"
	"errors"

	"supplyhub/internal/model"
)

var (
	// ErrNotFound is returned when an account-scoped lookup misses.
	// Callers must not distinguish "absent" from "owned by someone else".
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already registered")
)

// AccountRepository defines data access for account documents and their
// embedded sellers and supplies. Every seller/supply method takes the owning
// account id and scopes its query by it.
type AccountRepository interface {
	// CreateAccount inserts a new account and assigns its id.
	CreateAccount(ctx context.Context, acc *model.Account) error

	// AccountByEmail fetches an account by its unique email.
	AccountByEmail(ctx context.Context, email string) (*model.Account, error)

	// AccountByID fetches an account by id.
	AccountByID(ctx context.Context, id string) (*model.Account, error)

	// RecordLogin stamps last_login and appends an ip history entry.
	RecordLogin(ctx context.Context, id, ip, userAgent string) error

	// UpdateProfile applies an allow-listed profile patch and returns the
	// updated account.
	UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.Account, error)

	// ReplaceSellers overwrites the account's seller list wholesale.
	ReplaceSellers(ctx context.Context, id string, sellers []model.Seller) error

	// Sellers returns the account's seller list in insertion order.
	Sellers(ctx context.Context, accountID string) ([]model.Seller, error)

	// SellerByID returns one seller of the account.
	SellerByID(ctx context.Context, accountID, sellerID string) (*model.Seller, error)

	// AddSeller appends a seller to the account's list.
	AddSeller(ctx context.Context, accountID string, s model.Seller) error

	// UpdateSeller replaces the id/name pair of the seller matched by its
	// pre-edit id. Nested supplies are kept.
	UpdateSeller(ctx context.Context, accountID, originalID string, s model.Seller) error

	// RemoveSeller pulls a seller (and its supplies) from the account's
	// list. Pulling an absent id succeeds.
	RemoveSeller(ctx context.Context, accountID, sellerID string) error

	// FindSellerOwner looks for any other account holding a seller with the
	// given id and reports that seller's display name when found.
	FindSellerOwner(ctx context.Context, sellerID, excludeAccountID string) (ownerName string, found bool, err error)

	// AddSupply appends a supply to the scoped seller.
	AddSupply(ctx context.Context, accountID, sellerID string, s model.Supply) error

	// SupplyByID returns one supply of the scoped seller.
	SupplyByID(ctx context.Context, accountID, sellerID, supplyID string) (*model.Supply, error)

	// UpdateSupply applies the whitelist patch to the supply matched inside
	// the scoped seller. Present patch fields replace the stored objects
	// wholesale; absent fields are untouched.
	UpdateSupply(ctx context.Context, accountID, sellerID, supplyID string, patch model.SupplyPatch) error

	// RemoveSupply pulls a supply from the scoped seller. Pulling an
	// absent supply id succeeds; an unresolvable seller scope fails.
	RemoveSupply(ctx context.Context, accountID, sellerID, supplyID string) error

	// Ping verifies the store connection.
	Ping(ctx context.Context) error

	// Close closes the repository connection.
	Close() error
}
