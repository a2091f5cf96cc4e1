package service

import (
	"context"
	"log"
	"time"

	"supplyhub/internal/model"
	"supplyhub/internal/repository"
	"supplyhub/internal/validation"
	"supplyhub/pkg/apierror"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SupplyService handles supply CRUD within one seller's scope.
type SupplyService struct {
	repo repository.AccountRepository
}

// NewSupplyService creates a new supply service.
func NewSupplyService(repo repository.AccountRepository) *SupplyService {
	if repo == nil {
		return nil
	}
	return &SupplyService{repo: repo}
}

// List returns the seller's supplies with the seller's identifying fields
// denormalized onto each, empty slice when none.
func (s *SupplyService) List(ctx context.Context, accountID, sellerID string) ([]model.Supply, error) {
	if sellerID == "" {
		return nil, apierror.BadRequest("seller_id is required")
	}

	seller, err := s.repo.SellerByID(ctx, accountID, sellerID)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("seller not found")
	}
	if err != nil {
		log.Printf("[SupplyService] list failed: %v", err)
		return nil, apierror.InternalError("failed to fetch supplies")
	}

	supplies := make([]model.Supply, 0, len(seller.Supplies))
	for _, sup := range seller.Supplies {
		supplies = append(supplies, withSellerFields(sup, seller))
	}
	return supplies, nil
}

// Create appends a new supply to the scoped seller. The client-supplied
// status is discarded: every supply starts idle with zero attempts.
func (s *SupplyService) Create(ctx context.Context, accountID, sellerID string, in model.Supply) (*model.Supply, error) {
	if sellerID == "" {
		return nil, apierror.BadRequest("seller_id is required")
	}
	if err := validation.PreorderID(in.PreorderID); err != nil {
		return nil, apierror.Validation(err.Error())
	}

	now := time.Now().UTC()
	supply := model.Supply{
		ID:              primitive.NewObjectID(),
		TaskID:          in.TaskID,
		PreorderID:      in.PreorderID,
		WarehouseName:   in.WarehouseName,
		WarehouseID:     in.WarehouseID,
		BookingSettings: in.BookingSettings,
		Status:          model.NewSupplyStatus(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if supply.BookingSettings.TargetDates == nil {
		supply.BookingSettings.TargetDates = []string{}
	}

	if err := s.repo.AddSupply(ctx, accountID, sellerID, supply); err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("seller not found")
		}
		log.Printf("[SupplyService] create failed: %v", err)
		return nil, apierror.InternalError("failed to create supply")
	}

	seller, err := s.repo.SellerByID(ctx, accountID, sellerID)
	if err != nil {
		log.Printf("[SupplyService] post-create read failed: %v", err)
		return nil, apierror.InternalError("failed to create supply")
	}

	created := withSellerFields(supply, seller)
	return &created, nil
}

// Update applies the whitelist patch to the addressed supply and returns
// the merged record. Fields outside the whitelist never change; status and
// booking_settings are replaced wholesale when present.
func (s *SupplyService) Update(ctx context.Context, accountID, sellerID, supplyID string, patch model.SupplyPatch) (*model.Supply, error) {
	if supplyID == "" || sellerID == "" {
		return nil, apierror.BadRequest("supply id and seller_id are required")
	}

	if !patch.IsEmpty() {
		err := s.repo.UpdateSupply(ctx, accountID, sellerID, supplyID, patch)
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("supply not found")
		}
		if err != nil {
			log.Printf("[SupplyService] update failed: %v", err)
			return nil, apierror.InternalError("failed to update supply")
		}
	}

	updated, err := s.repo.SupplyByID(ctx, accountID, sellerID, supplyID)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("supply not found")
	}
	if err != nil {
		log.Printf("[SupplyService] post-update read failed: %v", err)
		return nil, apierror.InternalError("failed to update supply")
	}

	seller, err := s.repo.SellerByID(ctx, accountID, sellerID)
	if err != nil {
		log.Printf("[SupplyService] post-update read failed: %v", err)
		return nil, apierror.InternalError("failed to update supply")
	}

	merged := withSellerFields(*updated, seller)
	return &merged, nil
}

// Delete removes a supply from the scoped seller. The seller scope must
// resolve; deleting an already-absent supply id succeeds.
func (s *SupplyService) Delete(ctx context.Context, accountID, sellerID, supplyID string) error {
	if supplyID == "" || sellerID == "" {
		return apierror.BadRequest("supply id and seller_id are required")
	}

	err := s.repo.RemoveSupply(ctx, accountID, sellerID, supplyID)
	if err == repository.ErrNotFound {
		return apierror.NotFound("supply not found")
	}
	if err != nil {
		log.Printf("[SupplyService] delete failed: %v", err)
		return apierror.InternalError("failed to delete supply")
	}
	return nil
}

// withSellerFields denormalizes the owning seller's identifying fields onto
// a supply for display.
func withSellerFields(sup model.Supply, seller *model.Seller) model.Supply {
	sup.SellerID = seller.SellerID
	sup.SellerName = seller.SellerName
	return sup
}
