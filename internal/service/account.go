package service

import (
	"context"
	"log"
	"strings"

	"supplyhub/internal/model"
	"supplyhub/internal/repository"
	"supplyhub/pkg/apierror"

	"golang.org/x/crypto/bcrypt"
)

// DefaultUserType is assigned to freshly registered accounts.
const DefaultUserType = "USER_FREE"

// AccountService handles registration, login and profile management.
type AccountService struct {
	repo     repository.AccountRepository
	sessions *SessionService
	sellers  *SellerService
}

// NewAccountService creates a new account service.
func NewAccountService(repo repository.AccountRepository, sessions *SessionService, sellers *SellerService) *AccountService {
	if repo == nil {
		return nil
	}
	return &AccountService{
		repo:     repo,
		sessions: sessions,
		sellers:  sellers,
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AccountService) Register(ctx context.Context, email, password string) (*model.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, apierror.BadRequest("email and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[AccountService] bcrypt failure: %v", err)
		return nil, apierror.InternalError("failed to register")
	}

	acc := &model.Account{
		Email:                email,
		Password:             string(hashed),
		UserType:             DefaultUserType,
		Sellers:              []model.Seller{},
		Active:               true,
		Validated:            false,
		NotificationSettings: map[string]interface{}{},
		NotificationEnabled:  true,
		IPHistory:            []model.IPRecord{},
		PaymentHistory:       []model.PaymentRecord{},
	}

	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		if err == repository.ErrEmailTaken {
			return nil, apierror.BadRequest("email already in use")
		}
		log.Printf("[AccountService] create account failed: %v", err)
		return nil, apierror.InternalError("failed to register")
	}

	return acc, nil
}

// Login verifies credentials, records the login and issues a session token.
func (s *AccountService) Login(ctx context.Context, email, password, ip, userAgent string) (*model.Account, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	acc, err := s.repo.AccountByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return nil, "", apierror.Unauthorized("invalid email or password")
	}
	if err != nil {
		log.Printf("[AccountService] login lookup failed: %v", err)
		return nil, "", apierror.InternalError("failed to log in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(password)); err != nil {
		return nil, "", apierror.Unauthorized("invalid email or password")
	}

	// Login succeeds even if the audit stamp cannot be written.
	if err := s.repo.RecordLogin(ctx, acc.ID.Hex(), ip, userAgent); err != nil {
		log.Printf("[AccountService] failed to record login for %s: %v", acc.ID.Hex(), err)
	}

	token, err := s.sessions.Generate(ctx, model.SessionData{
		AccountID: acc.ID.Hex(),
		Email:     acc.Email,
		UserType:  acc.UserType,
	})
	if err != nil {
		log.Printf("[AccountService] session issue failed: %v", err)
		return nil, "", apierror.InternalError("failed to log in")
	}

	return acc, token, nil
}

// Profile returns the caller's profile without sellers.
func (s *AccountService) Profile(ctx context.Context, accountID string) (*model.Profile, error) {
	acc, err := s.repo.AccountByID(ctx, accountID)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("user not found")
	}
	if err != nil {
		log.Printf("[AccountService] profile fetch failed: %v", err)
		return nil, apierror.InternalError("failed to fetch user")
	}
	return model.ProfileOf(acc, false), nil
}

// ProfileWithSellers returns the caller's profile including sellers, plus
// the setup_completed flag.
func (s *AccountService) ProfileWithSellers(ctx context.Context, accountID string) (*model.Profile, bool, error) {
	acc, err := s.repo.AccountByID(ctx, accountID)
	if err == repository.ErrNotFound {
		return nil, false, apierror.NotFound("user not found")
	}
	if err != nil {
		log.Printf("[AccountService] profile fetch failed: %v", err)
		return nil, false, apierror.InternalError("failed to fetch user")
	}
	return model.ProfileOf(acc, true), len(acc.Sellers) > 0, nil
}

// UpdateProfile applies an allow-listed profile patch.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, patch model.ProfilePatch) (*model.Profile, error) {
	acc, err := s.repo.UpdateProfile(ctx, accountID, patch)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("user not found")
	}
	if err != nil {
		log.Printf("[AccountService] profile update failed: %v", err)
		return nil, apierror.InternalError("failed to update user")
	}
	return model.ProfileOf(acc, false), nil
}

// UpdateWithSellers applies a profile patch and, when sellers is non-nil,
// replaces the whole seller list after validating every entry.
func (s *AccountService) UpdateWithSellers(ctx context.Context, accountID string, sellers []model.Seller, patch model.ProfilePatch) (*model.Profile, bool, error) {
	if sellers != nil {
		seen := make(map[string]struct{}, len(sellers))
		for i := range sellers {
			if err := s.sellers.validate(sellers[i]); err != nil {
				return nil, false, err
			}
			if _, dup := seen[sellers[i].SellerID]; dup {
				return nil, false, apierror.Duplicate("seller identifier appears more than once")
			}
			seen[sellers[i].SellerID] = struct{}{}
			if err := s.sellers.assertUniqueAcrossAccounts(ctx, accountID, sellers[i].SellerID); err != nil {
				return nil, false, err
			}
		}
		if err := s.repo.ReplaceSellers(ctx, accountID, sellers); err != nil {
			if err == repository.ErrNotFound {
				return nil, false, apierror.NotFound("user not found")
			}
			log.Printf("[AccountService] sellers replace failed: %v", err)
			return nil, false, apierror.InternalError("failed to update user")
		}
	}

	if _, err := s.repo.UpdateProfile(ctx, accountID, patch); err != nil {
		if err == repository.ErrNotFound {
			return nil, false, apierror.NotFound("user not found")
		}
		log.Printf("[AccountService] profile update failed: %v", err)
		return nil, false, apierror.InternalError("failed to update user")
	}

	return s.ProfileWithSellers(ctx, accountID)
}
