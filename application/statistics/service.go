package statistics

import (
	"context"
	"fmt"
	"math"

	"boleteria/common"
)

const (
	DefaultTopBuyers = 5
	MaxTopBuyers     = 100
)

type Service struct {
	repo *Repository
}

// NewService creates a new Service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CountByStatus always reports both statuses, zero when absent.
func (s *Service) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[common.TicketStatus]int64{}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return []StatusCount{
		{Status: common.TicketStatusSold, Count: counts[common.TicketStatusSold]},
		{Status: common.TicketStatusUsed, Count: counts[common.TicketStatusUsed]},
	}, nil
}

// RevenueByStatus always reports both statuses, zero when absent.
func (s *Service) RevenueByStatus(ctx context.Context) ([]StatusRevenue, error) {
	rows, err := s.repo.RevenueByStatus(ctx)
	if err != nil {
		return nil, err
	}
	result := []StatusRevenue{
		{Status: common.TicketStatusSold},
		{Status: common.TicketStatusUsed},
	}
	for _, row := range rows {
		for i := range result {
			if result[i].Status == row.Status {
				result[i].Revenue = row.Revenue.Round(2)
			}
		}
	}
	return result, nil
}

// CountByClass counts sold tickets per class
func (s *Service) CountByClass(ctx context.Context) ([]ClassCount, error) {
	return s.repo.CountByClass(ctx)
}

// RevenueByClass sums sold prices per class, rounded to cents
func (s *Service) RevenueByClass(ctx context.Context) ([]ClassRevenue, error) {
	rows, err := s.repo.RevenueByClass(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Revenue = rows[i].Revenue.Round(2)
	}
	return rows, nil
}

// TopBuyers returns at most limit buyers; zero selects DefaultTopBuyers
func (s *Service) TopBuyers(ctx context.Context, limit int) ([]BuyerCount, error) {
	if limit == 0 {
		limit = DefaultTopBuyers
	}
	if limit < 1 || limit > MaxTopBuyers {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d, got %d", common.ErrInvalidArgument, MaxTopBuyers, limit)
	}
	return s.repo.TopBuyers(ctx, limit)
}

// Sellers returns sold count and revenue per seller
func (s *Service) Sellers(ctx context.Context) ([]SellerSales, error) {
	rows, err := s.repo.Sellers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Revenue = rows[i].Revenue.Round(2)
	}
	return rows, nil
}

// PaymentMethods adds each method's share of all tickets, in percent with
// two decimals.
func (s *Service) PaymentMethods(ctx context.Context) ([]PaymentShare, error) {
	rows, err := s.repo.PaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, row := range rows {
		total += row.Count
	}
	for i := range rows {
		if total > 0 {
			rows[i].Percentage = math.Round(float64(rows[i].Count)*10000/float64(total)) / 100
		}
	}
	return rows, nil
}

// Dashboard computes every statistic
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.CountByStatus, err = s.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if d.RevenueByStatus, err = s.RevenueByStatus(ctx); err != nil {
		return nil, err
	}
	if d.CountByClass, err = s.CountByClass(ctx); err != nil {
		return nil, err
	}
	if d.RevenueByClass, err = s.RevenueByClass(ctx); err != nil {
		return nil, err
	}
	if d.TopBuyers, err = s.TopBuyers(ctx, DefaultTopBuyers); err != nil {
		return nil, err
	}
	if d.Sellers, err = s.Sellers(ctx); err != nil {
		return nil, err
	}
	if d.PaymentMethods, err = s.PaymentMethods(ctx); err != nil {
		return nil, err
	}
	if d.AverageAge, err = s.repo.AverageAge(ctx); err != nil {
		return nil, err
	}
	return &d, nil
}
