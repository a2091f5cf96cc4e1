package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyhub/internal/model"
	"supplyhub/internal/repository"
	"supplyhub/internal/service"
	"supplyhub/pkg/apierror"
)

func newAccount(t *testing.T, repo *repository.MemoryAccountRepository, email string) string {
	t.Helper()
	acc := &model.Account{Email: email, Password: "hash", Sellers: []model.Seller{}}
	require.NoError(t, repo.CreateAccount(context.Background(), acc))
	return acc.ID.Hex()
}

func apiCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr), "expected *apierror.Error, got %v", err)
	return apiErr.Code
}

func TestSellerCreate_Success(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	accountID := newAccount(t, repo, "a@example.com")
	svc := service.NewSellerService(repo, false)

	seller, err := svc.Create(context.Background(), accountID, model.Seller{
		SellerID:   "1234567890",
		SellerName: "Shop",
	})

	require.NoError(t, err)
	assert.Equal(t, "1234567890", seller.SellerID)
	assert.Equal(t, "Shop", seller.SellerName)
	assert.NotNil(t, seller.Supplies)

	sellers, err := svc.List(context.Background(), accountID)
	require.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, "1234567890", sellers[0].SellerID)
}

func TestSellerCreate_InvalidInput(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	accountID := newAccount(t, repo, "a@example.com")
	svc := service.NewSellerService(repo, false)

	cases := []struct {
		name   string
		seller model.Seller
	}{
		{"missing fields", model.Seller{}},
		{"bad identifier", model.Seller{SellerID: "12345", SellerName: "Shop"}},
		{"eleven digits", model.Seller{SellerID: "12345678901", SellerName: "Shop"}},
		{"short name", model.Seller{SellerID: "1234567890", SellerName: "ab"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), accountID, tc.seller)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apiCode(t, err))
		})
	}
}

func TestSellerCreate_DuplicateWithinAccount(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	accountID := newAccount(t, repo, "a@example.com")
	svc := service.NewSellerService(repo, false)

	_, err := svc.Create(context.Background(), accountID, model.Seller{SellerID: "1234567890", SellerName: "Shop"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), accountID, model.Seller{SellerID: "1234567890", SellerName: "Other"})
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_IDENTIFIER", apiCode(t, err))
}

func TestSellerCreate_DuplicateAcrossAccounts(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	first := newAccount(t, repo, "a@example.com")
	second := newAccount(t, repo, "b@example.com")
	svc := service.NewSellerService(repo, false)

	_, err := svc.Create(context.Background(), first, model.Seller{SellerID: "1234567890", SellerName: "Shop"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), second, model.Seller{SellerID: "1234567890", SellerName: "Other"})
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_IDENTIFIER", apiCode(t, err))
	assert.Contains(t, err.Error(), "Shop", "the conflict carries the owning seller's name")
}

func TestSellerCreate_StrictNames(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	accountID := newAccount(t, repo, "a@example.com")
	svc := service.NewSellerService(repo, true)

	_, err := svc.Create(context.Background(), accountID, model.Seller{SellerID: "1234567890", SellerName: "My Shop"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), accountID, model.Seller{SellerID: "123456789012", SellerName: "my shop"})
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_IDENTIFIER", apiCode(t, err))
}

func TestSellerUpdate_SelfRename(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	accountID := newAccount(t, repo, "a@example.com")
	svc := service.NewSellerService(repo, false)

	_, err := svc.Create(context.Background(), accountID, model.Seller{SellerID: "1234567890", SellerName: "Shop"})
	require.NoError(t, err)

	// Keeping the same identifier must not self-conflict.
	updated, err := svc.Update(context.Background(), accountID, "1234567890", model.Seller{
		SellerID:   "1234567890",
		SellerName: "Renamed Shop",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Shop", updated.SellerName)
}

func TestSellerUpdate_ChangesIdentifierAndKeepsSupplies(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	accountID := newAccount(t, repo, "a@example.com")
	sellers := service.NewSellerService(repo, false)
	supplies := service.NewSupplyService(repo)

	_, err := sellers.Create(context.Background(), accountID, model.Seller{SellerID: "1234567890", SellerName: "Shop"})
	require.NoError(t, err)
	_, err = supplies.Create(context.Background(), accountID, "1234567890", model.Supply{PreorderID: "P-1"})
	require.NoError(t, err)

	updated, err := sellers.Update(context.Background(), accountID, "1234567890", model.Seller{
		SellerID:   "123456789012",
		SellerName: "Shop",
	})
	require.NoError(t, err)
	assert.Equal(t, "123456789012", updated.SellerID)
	require.Len(t, updated.Supplies, 1, "supplies survive an identifier change")
	assert.Equal(t, "P-1", updated.Supplies[0].PreorderID)
}

func TestSellerUpdate_UnknownOriginal(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	accountID := newAccount(t, repo, "a@example.com")
	svc := service.NewSellerService(repo, false)

	_, err := svc.Update(context.Background(), accountID, "9999999999", model.Seller{
		SellerID:   "1234567890",
		SellerName: "Shop",
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apiCode(t, err))
}

func TestSellerUpdate_TakenIdentifier(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	accountID := newAccount(t, repo, "a@example.com")
	svc := service.NewSellerService(repo, false)

	_, err := svc.Create(context.Background(), accountID, model.Seller{SellerID: "1234567890", SellerName: "First"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), accountID, model.Seller{SellerID: "123456789012", SellerName: "Second"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), accountID, "123456789012", model.Seller{
		SellerID:   "1234567890",
		SellerName: "Second",
	})
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_IDENTIFIER", apiCode(t, err))
}

func TestSellerDelete_Idempotent(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	accountID := newAccount(t, repo, "a@example.com")
	svc := service.NewSellerService(repo, false)

	_, err := svc.Create(context.Background(), accountID, model.Seller{SellerID: "1234567890", SellerName: "Shop"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), accountID, "1234567890"))
	require.NoError(t, svc.Delete(context.Background(), accountID, "1234567890"),
		"deleting an already-absent seller succeeds")

	sellers, err := svc.List(context.Background(), accountID)
	require.NoError(t, err)
	assert.Empty(t, sellers)
}

func TestSellerList_EmptyAccount(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	accountID := newAccount(t, repo, "a@example.com")
	svc := service.NewSellerService(repo, false)

	sellers, err := svc.List(context.Background(), accountID)
	require.NoError(t, err)
	assert.NotNil(t, sellers)
	assert.Empty(t, sellers)
}

func TestSellerList_UnknownAccount(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	svc := service.NewSellerService(repo, false)

	_, err := svc.List(context.Background(), "000000000000000000000000")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apiCode(t, err))
}
