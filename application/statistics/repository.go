package statistics

import (
	"context"
	"fmt"

	"boleteria/common"

	"github.com/guregu/null/v5"
	"gorm.io/gorm"
)

// Repository runs the read-only aggregate queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) tickets(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&common.Ticket{})
}

// CountByStatus counts tickets per status
func (r *Repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows := []StatusCount{}
	err := r.tickets(ctx).
		Select("status, COUNT(*) AS count").
		Group("status").Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	return rows, nil
}

// RevenueByStatus sums prices per status
func (r *Repository) RevenueByStatus(ctx context.Context) ([]StatusRevenue, error) {
	rows := []StatusRevenue{}
	err := r.tickets(ctx).
		Select("status, COALESCE(SUM(total_price), 0) AS revenue").
		Group("status").Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum by status: %w", err)
	}
	return rows, nil
}

// CountByClass counts sold tickets per class
func (r *Repository) CountByClass(ctx context.Context) ([]ClassCount, error) {
	rows := []ClassCount{}
	err := r.tickets(ctx).
		Select("class, COUNT(*) AS count").
		Where("status = ?", common.TicketStatusSold).
		Group("class").Order("class").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count by class: %w", err)
	}
	return rows, nil
}

// RevenueByClass sums sold ticket prices per class
func (r *Repository) RevenueByClass(ctx context.Context) ([]ClassRevenue, error) {
	rows := []ClassRevenue{}
	err := r.tickets(ctx).
		Select("class, COALESCE(SUM(total_price), 0) AS revenue").
		Where("status = ?", common.TicketStatusSold).
		Group("class").Order("class").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum by class: %w", err)
	}
	return rows, nil
}

// TopBuyers ranks buyers by ticket count, ties broken by name.
func (r *Repository) TopBuyers(ctx context.Context, limit int) ([]BuyerCount, error) {
	rows := []BuyerCount{}
	err := r.tickets(ctx).
		Select("buyer_name, COUNT(*) AS count").
		Group("buyer_name").
		Order("count DESC, buyer_name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank buyers: %w", err)
	}
	return rows, nil
}

// Sellers sums sold tickets per seller, ordered by seller name.
func (r *Repository) Sellers(ctx context.Context) ([]SellerSales, error) {
	rows := []SellerSales{}
	err := r.tickets(ctx).
		Select("users.id AS seller_id, users.name AS seller_name, COUNT(tickets.id) AS count, COALESCE(SUM(tickets.total_price), 0) AS revenue").
		Joins("JOIN users ON users.id = tickets.seller_id").
		Where("tickets.status = ?", common.TicketStatusSold).
		Group("users.id, users.name").
		Order("users.name, users.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum by seller: %w", err)
	}
	return rows, nil
}

// PaymentMethods returns raw counts; percentages are filled in by the service.
func (r *Repository) PaymentMethods(ctx context.Context) ([]PaymentShare, error) {
	rows := []PaymentShare{}
	err := r.tickets(ctx).
		Select("payment_method, COUNT(*) AS count").
		Group("payment_method").
		Order("count DESC, payment_method ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count by payment method: %w", err)
	}
	return rows, nil
}

// AverageAge is invalid when the table is empty.
func (r *Repository) AverageAge(ctx context.Context) (null.Float, error) {
	var avg null.Float
	if err := r.tickets(ctx).Select("AVG(buyer_age)").Row().Scan(&avg); err != nil {
		return null.Float{}, fmt.Errorf("failed to average buyer age: %w", err)
	}
	return avg, nil
}
