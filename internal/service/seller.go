package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"supplyhub/internal/model"
	"supplyhub/internal/repository"
	"supplyhub/internal/validation"
	"supplyhub/pkg/apierror"
)

// SellerService handles seller CRUD within one account's scope.
type SellerService struct {
	repo        repository.AccountRepository
	strictNames bool
}

// NewSellerService creates a new seller service. When strictNames is set,
// duplicate seller names (case-insensitive) within one account are rejected
// in addition to the identifier uniqueness guard.
func NewSellerService(repo repository.AccountRepository, strictNames bool) *SellerService {
	if repo == nil {
		return nil
	}
	return &SellerService{
		repo:        repo,
		strictNames: strictNames,
	}
}

// List returns the account's sellers, empty slice when none.
func (s *SellerService) List(ctx context.Context, accountID string) ([]model.Seller, error) {
	sellers, err := s.repo.Sellers(ctx, accountID)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("user not found")
	}
	if err != nil {
		log.Printf("[SellerService] list failed: %v", err)
		return nil, apierror.InternalError("failed to fetch sellers")
	}
	if sellers == nil {
		sellers = []model.Seller{}
	}
	return sellers, nil
}

// Create validates and appends a new seller to the account.
func (s *SellerService) Create(ctx context.Context, accountID string, in model.Seller) (*model.Seller, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if err := s.assertUnique(ctx, accountID, in, ""); err != nil {
		return nil, err
	}

	seller := model.Seller{
		SellerID:   in.SellerID,
		SellerName: strings.TrimSpace(in.SellerName),
		Supplies:   []model.Supply{},
	}

	if err := s.repo.AddSeller(ctx, accountID, seller); err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("user not found")
		}
		log.Printf("[SellerService] create failed: %v", err)
		return nil, apierror.InternalError("failed to create seller")
	}

	return &seller, nil
}

// Update replaces the id/name pair of the seller addressed by its pre-edit
// identifier. Partial update is not supported: both fields are replaced
// together.
func (s *SellerService) Update(ctx context.Context, accountID, originalID string, in model.Seller) (*model.Seller, error) {
	if originalID == "" {
		return nil, apierror.BadRequest("seller id is required")
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if err := s.assertUnique(ctx, accountID, in, originalID); err != nil {
		return nil, err
	}

	seller := model.Seller{
		SellerID:   in.SellerID,
		SellerName: strings.TrimSpace(in.SellerName),
	}

	err := s.repo.UpdateSeller(ctx, accountID, originalID, seller)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("seller not found")
	}
	if err != nil {
		log.Printf("[SellerService] update failed: %v", err)
		return nil, apierror.InternalError("failed to update seller")
	}

	updated, err := s.repo.SellerByID(ctx, accountID, seller.SellerID)
	if err != nil {
		log.Printf("[SellerService] post-update read failed: %v", err)
		return nil, apierror.InternalError("failed to update seller")
	}
	return updated, nil
}

// Delete removes a seller (and its nested supplies) from the account.
// Deleting an absent identifier succeeds.
func (s *SellerService) Delete(ctx context.Context, accountID, sellerID string) error {
	if sellerID == "" {
		return apierror.BadRequest("seller id is required")
	}

	err := s.repo.RemoveSeller(ctx, accountID, sellerID)
	if err == repository.ErrNotFound {
		return apierror.NotFound("user not found")
	}
	if err != nil {
		log.Printf("[SellerService] delete failed: %v", err)
		return apierror.InternalError("failed to delete seller")
	}
	return nil
}

// validate runs the pure field checks.
func (s *SellerService) validate(in model.Seller) error {
	if in.SellerName == "" || in.SellerID == "" {
		return apierror.Validation("seller name and identifier are required")
	}
	if err := validation.SellerID(in.SellerID); err != nil {
		return apierror.Validation(err.Error())
	}
	if err := validation.SellerName(in.SellerName); err != nil {
		return apierror.Validation(err.Error())
	}
	return nil
}

// assertUnique enforces the identifier uniqueness guard: no other account
// may hold the candidate id, and the caller's own list may not hold it
// either. excludeOriginalID identifies the seller being edited so a same-id
// update does not self-conflict.
func (s *SellerService) assertUnique(ctx context.Context, accountID string, in model.Seller, excludeOriginalID string) error {
	if err := s.assertUniqueAcrossAccounts(ctx, accountID, in.SellerID); err != nil {
		return err
	}

	sellers, err := s.repo.Sellers(ctx, accountID)
	if err != nil && err != repository.ErrNotFound {
		log.Printf("[SellerService] uniqueness check failed: %v", err)
		return apierror.InternalError("failed to validate seller")
	}

	for _, existing := range sellers {
		if existing.SellerID == excludeOriginalID {
			continue
		}
		if existing.SellerID == in.SellerID {
			return apierror.Duplicate(fmt.Sprintf("seller identifier already used by %q", existing.SellerName))
		}
		if s.strictNames && strings.EqualFold(strings.TrimSpace(existing.SellerName), strings.TrimSpace(in.SellerName)) {
			return apierror.Duplicate(fmt.Sprintf("seller name already used by %q", existing.SellerName))
		}
	}
	return nil
}

// assertUniqueAcrossAccounts rejects an identifier held by any other account.
func (s *SellerService) assertUniqueAcrossAccounts(ctx context.Context, accountID, sellerID string) error {
	ownerName, found, err := s.repo.FindSellerOwner(ctx, sellerID, accountID)
	if err != nil {
		log.Printf("[SellerService] cross-account uniqueness check failed: %v", err)
		return apierror.InternalError("failed to validate seller")
	}
	if found {
		return apierror.Duplicate(fmt.Sprintf("seller identifier already used by %q", ownerName))
	}
	return nil
}
