package domain

import (
	"context"

	"boleteria/common"
	"boleteria/middleware"

	"gorm.io/gorm"
)

// Repository is the persistence boundary for tickets.
type Repository interface {
	// CreateBatch inserts all tickets in one transaction and fills in their ids.
	CreateBatch(ctx context.Context, tickets []common.Ticket) error

	FindByID(ctx context.Context, id uint) (*common.Ticket, error)
	FindAll(ctx context.Context) ([]common.Ticket, error)
	FindByEvent(ctx context.Context, eventID uint) ([]common.Ticket, error)
	FindBySeller(ctx context.Context, sellerID uint) ([]common.Ticket, error)
	FindByStatus(ctx context.Context, status common.TicketStatus) ([]common.Ticket, error)
	FindPage(ctx context.Context, page PageRequest) ([]common.Ticket, int64, error)
	Search(ctx context.Context, filter TicketFilter, page PageRequest) ([]common.Ticket, int64, error)
	DistinctSellers(ctx context.Context) ([]Seller, error)

	// MarkUsed flips Sold to Used in a single conditional statement and
	// reports whether this call made the change.
	MarkUsed(ctx context.Context, id uint) (bool, error)

	// Update overwrites the given columns of an existing ticket.
	Update(ctx context.Context, id uint, values map[string]any) error

	// Delete removes the ticket. A missing id is not an error.
	Delete(ctx context.Context, id uint) error

	Count(ctx context.Context) (int64, error)

	// CountForEvent counts tickets already issued for an event.
	CountForEvent(ctx context.Context, eventID uint) (int64, error)

	// ExportQuery returns the query the export stream pages through.
	ExportQuery(ctx context.Context) *gorm.DB
}

// EventReader is the slice of the events repository issuance needs when
// capacity is enforced.
type EventReader interface {
	FindByID(ctx context.Context, id uint) (*common.Event, error)
}

// Sender renders and emails a ticket.
type Sender interface {
	Send(ctx context.Context, ticket *common.Ticket) error
}

type Service interface {
	CreateTickets(ctx context.Context, template TicketInput, quantity int) ([]common.Ticket, error)
	MarkUsed(ctx context.Context, id uint) (*common.Ticket, error)
	Update(ctx context.Context, id uint, values TicketInput) (*common.Ticket, error)
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*common.Ticket, error)
	ListAll(ctx context.Context) ([]common.Ticket, error)
	ListByEvent(ctx context.Context, eventID uint) ([]common.Ticket, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]common.Ticket, error)
	ListByStatus(ctx context.Context, status string) ([]common.Ticket, error)
	ListPage(ctx context.Context, page PageRequest) (Page[common.Ticket], error)
	Filter(ctx context.Context, query FilterQuery) (Page[common.Ticket], error)
	FilterBySeller(ctx context.Context, query FilterQuery) (Page[common.Ticket], error)
	Sellers(ctx context.Context) ([]Seller, error)

	// Send emails the rendered ticket to its buyer.
	Send(ctx context.Context, id uint) (*SendResult, error)

	// Export streams every ticket as a JSON array.
	Export(ctx context.Context) middleware.StreamResponse
}
