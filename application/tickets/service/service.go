package service

import (
	"context"
	"errors"
	"fmt"

	"boleteria/application/tickets/domain"
	"boleteria/common"
	"boleteria/internal/clock"
	"boleteria/internal/stream"

	"go.uber.org/zap"
)

// Options carries the optional collaborators of the ticket service.
type Options struct {
	// Events is required when EnforceCapacity is set.
	Events          domain.EventReader
	EnforceCapacity bool

	Sender domain.Sender
	Clock  clock.Clock
	Logger *zap.Logger

	// ExportBatchSize is the page size used by Export.
	ExportBatchSize int
}

type service struct {
	repo      domain.Repository
	events    domain.EventReader
	sender    domain.Sender
	validator domain.Validator
	clock     clock.Clock
	log       *zap.Logger
	streamer  stream.Streamer[common.Ticket]

	enforceCapacity bool
	exportBatchSize int
}

// NewService creates a new Service instance
func NewService(repo domain.Repository, opts Options) domain.Service {
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	config := stream.DefaultChunkConfig()
	if opts.ExportBatchSize > 0 {
		config.BatchSize = opts.ExportBatchSize
	}

	return &service{
		repo:            repo,
		events:          opts.Events,
		sender:          opts.Sender,
		validator:       domain.NewValidator(),
		clock:           opts.Clock,
		log:             opts.Logger.Named("tickets"),
		streamer:        stream.NewStreamer[common.Ticket](config),
		enforceCapacity: opts.EnforceCapacity && opts.Events != nil,
		exportBatchSize: config.BatchSize,
	}
}

// CreateTickets issues quantity copies of template in one transaction. Every
// ticket starts Sold, shares the batch purchase time and gets its own
// redemption code.
func (s *service) CreateTickets(ctx context.Context, template domain.TicketInput, quantity int) ([]common.Ticket, error) {
	if err := s.validator.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateInput(&template); err != nil {
		return nil, err
	}
	if err := s.checkCapacity(ctx, template.EventID, quantity); err != nil {
		return nil, err
	}

	purchasedAt := s.clock.Now()
	tickets := make([]common.Ticket, 0, quantity)
	for i := 0; i < quantity; i++ {
		code, err := NewRedemptionCode(template.Class, template.BuyerName, template.BuyerIdentification)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, common.Ticket{
			BuyerName:           template.BuyerName,
			BuyerIdentification: template.BuyerIdentification,
			BuyerEmail:          template.BuyerEmail,
			BuyerPhone:          template.BuyerPhone,
			BuyerAge:            template.BuyerAge,
			TotalPrice:          template.TotalPrice,
			PaymentMethod:       template.PaymentMethod,
			Status:              common.TicketStatusSold,
			TransactionNumber:   template.TransactionNumber,
			RedemptionCode:      code,
			SaleStage:           template.SaleStage,
			PurchasedAt:         purchasedAt,
			Class:               template.Class,
			SellerID:            template.SellerID,
			EventID:             template.EventID,
		})
	}

	if err := s.repo.CreateBatch(ctx, tickets); err != nil {
		return nil, err
	}

	ticketsIssued.WithLabelValues(classLabel(template.Class)).Add(float64(quantity))
	s.log.Info("tickets issued",
		zap.Int("quantity", quantity),
		zap.String("class", template.Class),
		zap.Uintp("eventId", template.EventID),
		zap.Uintp("sellerId", template.SellerID),
	)
	return tickets, nil
}

func (s *service) checkCapacity(ctx context.Context, eventID *uint, quantity int) error {
	if !s.enforceCapacity || eventID == nil {
		return nil
	}
	event, err := s.events.FindByID(ctx, *eventID)
	if err != nil {
		return err
	}
	issued, err := s.repo.CountForEvent(ctx, event.ID)
	if err != nil {
		return err
	}
	if issued+int64(quantity) > int64(event.Capacity) {
		return fmt.Errorf("%w: event %d has %d of %d tickets issued, cannot issue %d more",
			common.ErrInvalidState, event.ID, issued, event.Capacity, quantity)
	}
	return nil
}

// MarkUsed redeems a ticket. Only one caller can ever win for a given id;
// the rest see ErrInvalidState.
func (s *service) MarkUsed(ctx context.Context, id uint) (*common.Ticket, error) {
	applied, err := s.repo.MarkUsed(ctx, id)
	if err != nil {
		return nil, err
	}
	if !applied {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: ticket %d is already used", common.ErrInvalidState, id)
	}

	ticketsRedeemed.Inc()
	s.log.Info("ticket redeemed", zap.Uint("ticketId", id))
	return s.repo.FindByID(ctx, id)
}

// Update overwrites buyer and commercial fields. The redemption code,
// purchase time and event never change here, and neither does status.
func (s *service) Update(ctx context.Context, id uint, values domain.TicketInput) (*common.Ticket, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateInput(&values); err != nil {
		return nil, err
	}
	if values.Status != nil && *values.Status != current.Status {
		return nil, fmt.Errorf("%w: status cannot be changed from %s to %s by update",
			common.ErrInvalidArgument, current.Status, *values.Status)
	}

	columns := map[string]any{
		"buyer_name":           values.BuyerName,
		"buyer_identification": values.BuyerIdentification,
		"buyer_email":          values.BuyerEmail,
		"buyer_phone":          values.BuyerPhone,
		"buyer_age":            values.BuyerAge,
		"total_price":          values.TotalPrice,
		"payment_method":       values.PaymentMethod,
		"transaction_number":   values.TransactionNumber,
		"sale_stage":           values.SaleStage,
		"class":                values.Class,
	}
	if values.SellerID != nil {
		columns["seller_id"] = *values.SellerID
	}

	if err := s.repo.Update(ctx, id, columns); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes a ticket; a missing id is not an error
func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// GetByID returns a ticket or ErrNotFound
func (s *service) GetByID(ctx context.Context, id uint) (*common.Ticket, error) {
	return s.repo.FindByID(ctx, id)
}

// ListAll returns every ticket
func (s *service) ListAll(ctx context.Context) ([]common.Ticket, error) {
	return s.repo.FindAll(ctx)
}

// ListByEvent returns the tickets of an event
func (s *service) ListByEvent(ctx context.Context, eventID uint) ([]common.Ticket, error) {
	return s.repo.FindByEvent(ctx, eventID)
}

// ListBySeller returns the tickets of a seller
func (s *service) ListBySeller(ctx context.Context, sellerID uint) ([]common.Ticket, error) {
	return s.repo.FindBySeller(ctx, sellerID)
}

// ListByStatus parses status and returns the matching tickets
func (s *service) ListByStatus(ctx context.Context, status string) ([]common.Ticket, error) {
	parsed, err := common.ParseTicketStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByStatus(ctx, parsed)
}

// ListPage returns one normalized page
func (s *service) ListPage(ctx context.Context, page domain.PageRequest) (domain.Page[common.Ticket], error) {
	page, err := s.validator.NormalizePage(page)
	if err != nil {
		return domain.Page[common.Ticket]{}, err
	}
	tickets, total, err := s.repo.FindPage(ctx, page)
	if err != nil {
		return domain.Page[common.Ticket]{}, err
	}
	return domain.NewPage(tickets, page, total), nil
}

// Filter pages tickets whose buyer field contains the value
func (s *service) Filter(ctx context.Context, query domain.FilterQuery) (domain.Page[common.Ticket], error) {
	return s.search(ctx, query, false)
}

// FilterBySeller is Filter restricted to a seller name
func (s *service) FilterBySeller(ctx context.Context, query domain.FilterQuery) (domain.Page[common.Ticket], error) {
	return s.search(ctx, query, true)
}

func (s *service) search(ctx context.Context, query domain.FilterQuery, requireSeller bool) (domain.Page[common.Ticket], error) {
	filter, err := s.validator.ParseFilter(query, requireSeller)
	if err != nil {
		return domain.Page[common.Ticket]{}, err
	}
	page, err := s.validator.NormalizePage(query.PageRequest)
	if err != nil {
		return domain.Page[common.Ticket]{}, err
	}
	tickets, total, err := s.repo.Search(ctx, filter, page)
	if err != nil {
		return domain.Page[common.Ticket]{}, err
	}
	return domain.NewPage(tickets, page, total), nil
}

// Sellers lists users that have sold tickets
func (s *service) Sellers(ctx context.Context) ([]domain.Seller, error) {
	return s.repo.DistinctSellers(ctx)
}

// Send emails the ticket to its buyer
func (s *service) Send(ctx context.Context, id uint) (*domain.SendResult, error) {
	if s.sender == nil {
		return nil, fmt.Errorf("%w: mail delivery is not configured", common.ErrDelivery)
	}
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.sender.Send(ctx, ticket); err != nil {
		status := "delivery_error"
		if errors.Is(err, common.ErrRender) {
			status = "render_error"
		}
		ticketDeliveries.WithLabelValues(status).Inc()
		return nil, err
	}

	ticketDeliveries.WithLabelValues("sent").Inc()
	s.log.Info("ticket sent", zap.Uint("ticketId", id), zap.String("recipient", ticket.BuyerEmail))
	return &domain.SendResult{TicketID: ticket.ID, Recipient: ticket.BuyerEmail}, nil
}
