package domain

import (
	"boleteria/common"

	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"
)

// TicketInput carries the buyer and commercial fields of a ticket. It is the
// template for issuance and the new values for an update.
type TicketInput struct {
	BuyerName           string          `json:"buyer_name" binding:"required,max=120"`
	BuyerIdentification string          `json:"buyer_identification" binding:"required,max=30"`
	BuyerEmail          string          `json:"buyer_email" binding:"required,email,max=160"`
	BuyerPhone          string          `json:"buyer_phone" binding:"required,max=30"`
	BuyerAge            int             `json:"buyer_age" binding:"min=0,max=130"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	PaymentMethod       string          `json:"payment_method" binding:"required,max=40"`
	TransactionNumber   null.String     `json:"transaction_number"`
	SaleStage           string          `json:"sale_stage" binding:"max=60"`
	Class               string          `json:"class" binding:"required,max=40"`
	EventID             *uint           `json:"event_id"`
	SellerID            *uint           `json:"seller_id"`

	// Status is ignored on issuance. On update it may only repeat the
	// current status; transitions go through MarkUsed.
	Status *common.TicketStatus `json:"status"`
}

// CreateTicketsRequest is the body of POST /api/tickets.
type CreateTicketsRequest struct {
	Ticket   TicketInput `json:"ticket" binding:"required"`
	Quantity int         `json:"quantity" binding:"required,min=1"`
}

// Page is one page of a paginated listing. Page numbers start at zero.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NewPage wraps one page of content with its paging totals
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest selects a page. Zero Size means DefaultPageSize.
type PageRequest struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

// Offset is the number of rows to skip
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// SearchField names a buyer column that can be filtered on.
type SearchField string

const (
	SearchByName           SearchField = "name"
	SearchByIdentification SearchField = "identification"
	SearchByEmail          SearchField = "email"
	SearchByPhone          SearchField = "phone"
)

// searchColumns is the whitelist of filterable columns. The Spanish names
// are accepted for clients of the previous API.
var searchColumns = map[string]SearchField{
	"name":           SearchByName,
	"nombre":         SearchByName,
	"identification": SearchByIdentification,
	"identificacion": SearchByIdentification,
	"email":          SearchByEmail,
	"correo":         SearchByEmail,
	"phone":          SearchByPhone,
	"telefono":       SearchByPhone,
}

// Column returns the tickets column backing the field.
func (f SearchField) Column() string {
	switch f {
	case SearchByName:
		return "buyer_name"
	case SearchByIdentification:
		return "buyer_identification"
	case SearchByEmail:
		return "buyer_email"
	case SearchByPhone:
		return "buyer_phone"
	}
	return ""
}

// TicketFilter is a case-insensitive "contains" search on one buyer field,
// optionally restricted to sellers whose name contains SellerName.
type TicketFilter struct {
	Field      SearchField
	Value      string
	SellerName string
}

// FilterQuery is the raw query string of the filter endpoints.
type FilterQuery struct {
	Field      string `form:"field"`
	Value      string `form:"value"`
	SellerName string `form:"seller"`
	PageRequest
}

// Seller is the public view of a user credited with sales.
type Seller struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SendResult is returned after a ticket has been emailed.
type SendResult struct {
	TicketID  uint   `json:"ticket_id"`
	Recipient string `json:"recipient"`
}
