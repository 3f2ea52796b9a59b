package common

import (
	"time"

	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"
)

type Ticket struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	BuyerName           string          `gorm:"size:120;not null;index" json:"buyer_name"`
	BuyerIdentification string          `gorm:"size:30;not null" json:"buyer_identification"`
	BuyerEmail          string          `gorm:"size:160;not null" json:"buyer_email"`
	BuyerPhone          string          `gorm:"size:30;not null" json:"buyer_phone"`
	BuyerAge            int             `gorm:"not null" json:"buyer_age"`
	TotalPrice          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	PaymentMethod       string          `gorm:"size:40;not null" json:"payment_method"`
	Status              TicketStatus    `gorm:"size:16;not null;index" json:"status"`
	TransactionNumber   null.String     `gorm:"size:80" json:"transaction_number"`
	RedemptionCode      string          `gorm:"size:255;not null;uniqueIndex" json:"redemption_code"`
	SaleStage           string          `gorm:"size:60" json:"sale_stage"`
	PurchasedAt         time.Time       `gorm:"not null" json:"purchased_at"`
	Class               string          `gorm:"size:40;not null;index" json:"class"`
	SellerID            *uint           `gorm:"index" json:"seller_id"`
	Seller              *User           `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	EventID             *uint           `gorm:"index" json:"event_id"`
	Event               *Event          `gorm:"foreignKey:EventID" json:"event,omitempty"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}
