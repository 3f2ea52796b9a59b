package statistics

import (
	"boleteria/common"

	"github.com/guregu/null/v5"
	"github.com/shopspring/decimal"
)

type StatusCount struct {
	Status common.TicketStatus `json:"status"`
	Count  int64               `json:"count"`
}

type StatusRevenue struct {
	Status  common.TicketStatus `json:"status"`
	Revenue decimal.Decimal     `json:"revenue"`
}

type ClassCount struct {
	Class string `json:"class"`
	Count int64  `json:"count"`
}

type ClassRevenue struct {
	Class   string          `json:"class"`
	Revenue decimal.Decimal `json:"revenue"`
}

type BuyerCount struct {
	BuyerName string `json:"buyer_name"`
	Count     int64  `json:"count"`
}

type SellerSales struct {
	SellerID   uint            `json:"seller_id"`
	SellerName string          `json:"seller_name"`
	Count      int64           `json:"count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type PaymentShare struct {
	PaymentMethod string  `json:"payment_method"`
	Count         int64   `json:"count"`
	Percentage    float64 `json:"percentage"`
}

// Dashboard bundles every statistic for the home screen. AverageAge is null
// when there are no tickets.
type Dashboard struct {
	CountByStatus   []StatusCount   `json:"count_by_status"`
	RevenueByStatus []StatusRevenue `json:"revenue_by_status"`
	CountByClass    []ClassCount    `json:"count_by_class"`
	RevenueByClass  []ClassRevenue  `json:"revenue_by_class"`
	TopBuyers       []BuyerCount    `json:"top_buyers"`
	Sellers         []SellerSales   `json:"sellers"`
	PaymentMethods  []PaymentShare  `json:"payment_methods"`
	AverageAge      null.Float      `json:"average_age"`
}
