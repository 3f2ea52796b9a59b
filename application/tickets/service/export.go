package service

import (
	"context"
	"time"

	"boleteria/common"
	"boleteria/internal/stream"
	"boleteria/middleware"

	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"
)

// ExportRow is the flattened shape of one ticket in the export stream.
type ExportRow struct {
	ID                  uint                `json:"id"`
	BuyerName           string              `json:"buyer_name"`
	BuyerIdentification string              `json:"buyer_identification"`
	BuyerEmail          string              `json:"buyer_email"`
	BuyerPhone          string              `json:"buyer_phone"`
	BuyerAge            int                 `json:"buyer_age"`
	TotalPrice          decimal.Decimal     `json:"total_price"`
	PaymentMethod       string              `json:"payment_method"`
	Status              common.TicketStatus `json:"status"`
	TransactionNumber   null.String         `json:"transaction_number"`
	SaleStage           string              `json:"sale_stage"`
	Class               string              `json:"class"`
	PurchasedAt         time.Time           `json:"purchased_at"`
	SellerName          null.String         `json:"seller_name"`
	EventName           null.String         `json:"event_name"`
}

func toExportRow(t common.Ticket) (any, error) {
	row := ExportRow{
		ID:                  t.ID,
		BuyerName:           t.BuyerName,
		BuyerIdentification: t.BuyerIdentification,
		BuyerEmail:          t.BuyerEmail,
		BuyerPhone:          t.BuyerPhone,
		BuyerAge:            t.BuyerAge,
		TotalPrice:          t.TotalPrice,
		PaymentMethod:       t.PaymentMethod,
		Status:              t.Status,
		TransactionNumber:   t.TransactionNumber,
		SaleStage:           t.SaleStage,
		Class:               t.Class,
		PurchasedAt:         t.PurchasedAt,
	}
	if t.Seller != nil {
		row.SellerName = null.StringFrom(t.Seller.Name)
	}
	if t.Event != nil {
		row.EventName = null.StringFrom(t.Event.Name)
	}
	return row, nil
}

// Export streams every ticket, paging through the table by primary key.
func (s *service) Export(ctx context.Context) middleware.StreamResponse {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return middleware.StreamResponse{Error: err}
	}

	fetcher := stream.GormBatchFetcher[common.Ticket](s.repo.ExportQuery(ctx), s.exportBatchSize)
	resp := s.streamer.StreamBatch(ctx, fetcher, stream.MapBatch(toExportRow))
	resp.TotalCount = total
	return resp
}
