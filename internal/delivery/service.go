package delivery

import (
	"context"
	"fmt"
	"html"

	"boleteria/common"

	"go.uber.org/zap"
)

const attachmentName = "Boleta.pdf"

// Service renders a ticket and mails it to the buyer.
type Service struct {
	renderer Renderer
	mailer   Mailer
	log      *zap.Logger
}

// NewService creates a new Service
func NewService(renderer Renderer, mailer Mailer, z *zap.Logger) *Service {
	if z == nil {
		z = zap.NewNop()
	}
	return &Service{renderer: renderer, mailer: mailer, log: z.Named("delivery")}
}

// Send wraps render failures in ErrRender and transport failures in ErrDelivery
func (s *Service) Send(ctx context.Context, ticket *common.Ticket) error {
	doc, err := s.renderer.Render(ticket)
	if err != nil {
		s.log.Error("render failed", zap.Uint("ticketId", ticket.ID), zap.Error(err))
		return fmt.Errorf("%w: %w", common.ErrRender, err)
	}

	event := eventName(ticket)
	msg := Message{
		To:      ticket.BuyerEmail,
		Subject: "Tu Boleta para el evento " + event,
		HTML: fmt.Sprintf("<p>Hola %s,</p><p>Gracias por tu compra. Adjunto encontrarás tu boleta para el evento %s.</p>",
			html.EscapeString(ticket.BuyerName), html.EscapeString(event)),
		Attachments: []Attachment{{Name: attachmentName, Data: doc}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error("mail failed", zap.Uint("ticketId", ticket.ID), zap.Error(err))
		return fmt.Errorf("%w: %w", common.ErrDelivery, err)
	}
	return nil
}
