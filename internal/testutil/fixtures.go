package testutil

import (
	"fmt"
	"testing"
	"time"

	"boleteria/common"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedUser inserts a seller with a throwaway password hash.
func SeedUser(t testing.TB, db *gorm.DB, name, email string, roles ...common.Role) *common.User {
	t.Helper()
	if len(roles) == 0 {
		roles = common.Roles{common.RoleUser}
	}
	var count int64
	db.Model(&common.User{}).Count(&count)
	user := &common.User{
		Name:           name,
		Identification: fmt.Sprintf("%010d", 1000000000+count+1),
		Email:          email,
		PasswordHash:   "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinvalid",
		Roles:          roles,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

// SeedEvent inserts an event dated 2026-12-05
func SeedEvent(t testing.TB, db *gorm.DB, name string, capacity int) *common.Event {
	t.Helper()
	event := &common.Event{
		Name:        name,
		Description: "Evento de prueba",
		Date:        time.Date(2026, 12, 5, 20, 0, 0, 0, time.UTC),
		Venue:       "Teatro Municipal",
		Capacity:    capacity,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("seed event %s: %v", name, err)
	}
	return event
}

// TicketOption adjusts a ticket built by SeedTicket.
type TicketOption func(*common.Ticket)

func WithBuyer(name, identification, email, phone string) TicketOption {
	return func(t *common.Ticket) {
		t.BuyerName = name
		t.BuyerIdentification = identification
		t.BuyerEmail = email
		t.BuyerPhone = phone
	}
}

func WithPrice(price string) TicketOption {
	return func(t *common.Ticket) { t.TotalPrice = decimal.RequireFromString(price) }
}

func WithStatus(status common.TicketStatus) TicketOption {
	return func(t *common.Ticket) { t.Status = status }
}

func WithClass(class string) TicketOption {
	return func(t *common.Ticket) { t.Class = class }
}

func WithPayment(method string) TicketOption {
	return func(t *common.Ticket) { t.PaymentMethod = method }
}

func WithAge(age int) TicketOption {
	return func(t *common.Ticket) { t.BuyerAge = age }
}

func WithSeller(u *common.User) TicketOption {
	return func(t *common.Ticket) { t.SellerID = &u.ID }
}

func WithEvent(e *common.Event) TicketOption {
	return func(t *common.Ticket) { t.EventID = &e.ID }
}

// SeedTicket inserts a Sold ticket directly, bypassing issuance.
func SeedTicket(t testing.TB, db *gorm.DB, opts ...TicketOption) *common.Ticket {
	t.Helper()
	ticket := &common.Ticket{
		BuyerName:           "Carlos Gómez",
		BuyerIdentification: "1032456789",
		BuyerEmail:          "carlos@example.com",
		BuyerPhone:          "3105550000",
		BuyerAge:            30,
		TotalPrice:          decimal.RequireFromString("50.00"),
		PaymentMethod:       "Efectivo",
		Status:              common.TicketStatusSold,
		RedemptionCode:      uuid.NewString(),
		SaleStage:           "Preventa",
		PurchasedAt:         time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		Class:               "General",
	}
	for _, opt := range opts {
		opt(ticket)
	}
	if err := db.Omit("Seller", "Event").Create(ticket).Error; err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	return ticket
}
