package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is one document in the users collection. Sellers (and their
// supplies) are embedded: they have no lifetime outside the owning account.
type Account struct {
	ID                   primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Email                string                 `bson:"email" json:"email"`
	Password             string                 `bson:"password" json:"-"`
	UserType             string                 `bson:"user_type" json:"user_type"`
	Sellers              []Seller               `bson:"sellers" json:"sellers,omitempty"`
	Active               bool                   `bson:"active" json:"active"`
	Validated            bool                   `bson:"validated" json:"validated"`
	ActiveTill           *time.Time             `bson:"active_till,omitempty" json:"active_till,omitempty"`
	LastLogin            *time.Time             `bson:"last_login,omitempty" json:"-"`
	TelegramID           string                 `bson:"telegram_id,omitempty" json:"telegram_id,omitempty"`
	NotificationSettings map[string]interface{} `bson:"notification_settings" json:"notification_settings"`
	NotificationEnabled  bool                   `bson:"notification_enabled" json:"notification_enabled"`
	TotalSuppliesBooked  int                    `bson:"total_supplies_booked" json:"total_supplies_booked"`
	IPHistory            []IPRecord             `bson:"ip_history" json:"-"`
	PaymentHistory       []PaymentRecord        `bson:"payment_history" json:"-"`
	CreatedAt            time.Time              `bson:"created_at" json:"-"`
	UpdatedAt            time.Time              `bson:"updated_at" json:"-"`
}

// IPRecord is one login audit entry.
type IPRecord struct {
	IP        string    `bson:"ip" json:"ip"`
	Date      time.Time `bson:"date" json:"date"`
	UserAgent string    `bson:"user_agent" json:"user_agent"`
}

// PaymentRecord is one billing history entry.
type PaymentRecord struct {
	Amount        float64   `bson:"amount" json:"amount"`
	Date          time.Time `bson:"date" json:"date"`
	Status        string    `bson:"status" json:"status"`
	PaymentMethod string    `bson:"payment_method" json:"payment_method"`
	TransactionID string    `bson:"transaction_id" json:"transaction_id"`
}

// Seller is a marketplace storefront registered under an account,
// identified by its tax id.
type Seller struct {
	SellerID   string   `bson:"seller_id" json:"seller_id"`
	SellerName string   `bson:"seller_name" json:"seller_name"`
	Supplies   []Supply `bson:"supplies" json:"supplies,omitempty"`
}

// Supply is one delivery-slot booking request belonging to a seller.
// SellerID/SellerName are denormalized onto reads for display and never
// stored on the subdocument itself.
type Supply struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TaskID          string             `bson:"task_id" json:"task_id"`
	PreorderID      string             `bson:"preorder_id" json:"preorder_id"`
	WarehouseName   string             `bson:"warehouse_name,omitempty" json:"warehouse_name,omitempty"`
	WarehouseID     string             `bson:"warehouse_id,omitempty" json:"warehouse_id,omitempty"`
	BookingSettings BookingSettings    `bson:"booking_settings" json:"booking_settings"`
	Status          SupplyStatus       `bson:"status" json:"status"`
	SellerID        string             `bson:"-" json:"seller_id,omitempty"`
	SellerName      string             `bson:"-" json:"seller_name,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"-"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"-"`
}

// BookingSettings controls how the external booking worker pursues a slot.
type BookingSettings struct {
	Mode        string   `bson:"mode" json:"mode"`
	TargetDates []string `bson:"target_dates" json:"target_dates"`
	Priority    string   `bson:"priority" json:"priority"`
	TargetCoeff string   `bson:"target_coeff" json:"target_coeff"`
}

// SupplyStatus is the booking progress field group. The repository layer
// stores it verbatim; the external worker drives its transitions.
type SupplyStatus struct {
	Active        bool    `bson:"active" json:"active"`
	AttemptsCount int     `bson:"attempts_count" json:"attempts_count"`
	Booked        bool    `bson:"booked" json:"booked"`
	SupplyID      *string `bson:"supply_id" json:"supply_id"`
}

// NewSupplyStatus returns the initial status every supply gets at creation,
// regardless of what the client sent.
func NewSupplyStatus() SupplyStatus {
	return SupplyStatus{
		Active:        false,
		AttemptsCount: 0,
		Booked:        false,
		SupplyID:      nil,
	}
}

// SupplyPatch is the whitelist of updatable supply paths. A nil field is
// left unchanged; a non-nil field replaces the stored object wholesale.
type SupplyPatch struct {
	Status          *SupplyStatus    `json:"status"`
	BookingSettings *BookingSettings `json:"booking_settings"`
}

// IsEmpty reports whether the patch would change nothing.
func (p SupplyPatch) IsEmpty() bool {
	return p.Status == nil && p.BookingSettings == nil
}

// ProfilePatch is the whitelist of account fields updatable through the
// profile endpoints. Password, sellers and the history arrays are never
// touched here.
type ProfilePatch struct {
	TelegramID           *string                `json:"telegram_id"`
	NotificationEnabled  *bool                  `json:"notification_enabled"`
	NotificationSettings map[string]interface{} `json:"notification_settings"`
}

// Profile is the account view returned to its owner. Password, payment
// history and ip history are excluded by construction.
type Profile struct {
	Email                string                 `json:"email"`
	Validated            bool                   `json:"validated"`
	UserType             string                 `json:"user_type"`
	TelegramID           string                 `json:"telegram_id,omitempty"`
	NotificationEnabled  bool                   `json:"notification_enabled"`
	NotificationSettings map[string]interface{} `json:"notification_settings"`
	TotalSuppliesBooked  int                    `json:"total_supplies_booked"`
	Active               bool                   `json:"active"`
	ActiveTill           *time.Time             `json:"active_till"`
	Sellers              []Seller               `json:"sellers,omitempty"`
}

// ProfileOf builds the owner-facing view of an account. Sellers are only
// attached when includeSellers is set.
func ProfileOf(acc *Account, includeSellers bool) *Profile {
	p := &Profile{
		Email:                acc.Email,
		Validated:            acc.Validated,
		UserType:             acc.UserType,
		TelegramID:           acc.TelegramID,
		NotificationEnabled:  acc.NotificationEnabled,
		NotificationSettings: acc.NotificationSettings,
		TotalSuppliesBooked:  acc.TotalSuppliesBooked,
		Active:               acc.Active,
		ActiveTill:           acc.ActiveTill,
	}
	if includeSellers {
		p.Sellers = acc.Sellers
		if p.Sellers == nil {
			p.Sellers = []Seller{}
		}
	}
	return p
}
