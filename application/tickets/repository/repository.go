package repository

import (
	"context"
	"errors"
	"fmt"

	"boleteria/application/tickets/domain"
	"boleteria/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// repository implements domain.Repository on gorm.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new gorm-backed Repository
func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// withRelations preloads seller and event for read paths.
func (r *repository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Seller").Preload("Event")
}

// CreateBatch inserts all tickets in one transaction
func (r *repository) CreateBatch(ctx context.Context, tickets []common.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(&tickets).Error
	})
	if err != nil {
		return translate(err, "failed to create tickets")
	}
	return nil
}

// FindByID loads the ticket with its seller and event
func (r *repository) FindByID(ctx context.Context, id uint) (*common.Ticket, error) {
	var ticket common.Ticket
	if err := r.withRelations(ctx).First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ticket %d", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find ticket %d: %w", id, err)
	}
	return &ticket, nil
}

// FindAll returns every ticket ordered by id
func (r *repository) FindAll(ctx context.Context) ([]common.Ticket, error) {
	return r.find(ctx, "failed to list tickets")
}

// FindByEvent returns the tickets of an event
func (r *repository) FindByEvent(ctx context.Context, eventID uint) ([]common.Ticket, error) {
	return r.find(ctx, "failed to list tickets by event", "event_id = ?", eventID)
}

// FindBySeller returns the tickets credited to a seller
func (r *repository) FindBySeller(ctx context.Context, sellerID uint) ([]common.Ticket, error) {
	return r.find(ctx, "failed to list tickets by seller", "seller_id = ?", sellerID)
}

// FindByStatus returns the tickets in a status
func (r *repository) FindByStatus(ctx context.Context, status common.TicketStatus) ([]common.Ticket, error) {
	return r.find(ctx, "failed to list tickets by status", "status = ?", status)
}

func (r *repository) find(ctx context.Context, failure string, conds ...any) ([]common.Ticket, error) {
	tickets := []common.Ticket{}
	query := r.withRelations(ctx).Order("tickets.id")
	if len(conds) > 0 {
		query = query.Where(conds[0], conds[1:]...)
	}
	if err := query.Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", failure, err)
	}
	return tickets, nil
}

// FindPage returns one page and the total count
func (r *repository) FindPage(ctx context.Context, page domain.PageRequest) ([]common.Ticket, int64, error) {
	return r.page(ctx, r.db.WithContext(ctx).Model(&common.Ticket{}), page)
}

// Search matches the filter case-insensitively. LOWER on both sides keeps
// the behaviour the same on MySQL and SQLite whatever the column collation.
func (r *repository) Search(ctx context.Context, filter domain.TicketFilter, page domain.PageRequest) ([]common.Ticket, int64, error) {
	column := filter.Field.Column()
	if column == "" {
		return nil, 0, fmt.Errorf("%w: field '%s' is not searchable", common.ErrInvalidArgument, filter.Field)
	}

	query := r.db.WithContext(ctx).Model(&common.Ticket{}).
		Where("LOWER(tickets."+column+") LIKE ? ESCAPE '!'", common.ContainsPattern(filter.Value))
	if filter.SellerName != "" {
		query = query.Joins("JOIN users ON users.id = tickets.seller_id").
			Where("LOWER(users.name) LIKE ? ESCAPE '!'", common.ContainsPattern(filter.SellerName))
	}
	return r.page(ctx, query, page)
}

func (r *repository) page(ctx context.Context, query *gorm.DB, page domain.PageRequest) ([]common.Ticket, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	tickets := []common.Ticket{}
	err := query.Session(&gorm.Session{}).
		Preload("Seller").Preload("Event").
		Order("tickets.id").
		Limit(page.Size).Offset(page.Offset()).
		Find(&tickets).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to page tickets: %w", err)
	}
	return tickets, total, nil
}

// DistinctSellers lists users with at least one ticket, by name
func (r *repository) DistinctSellers(ctx context.Context) ([]domain.Seller, error) {
	sellers := []domain.Seller{}
	err := r.db.WithContext(ctx).Model(&common.User{}).
		Select("users.id, users.name, users.email").
		Where("EXISTS (SELECT 1 FROM tickets WHERE tickets.seller_id = users.id)").
		Order("users.name").
		Scan(&sellers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}
	return sellers, nil
}

// MarkUsed is a compare-and-set on status, so concurrent callers cannot both
// see Sold and both succeed.
func (r *repository) MarkUsed(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&common.Ticket{}).
		Where("id = ? AND status = ?", id, common.TicketStatusSold).
		Update("status", common.TicketStatusUsed)
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark ticket %d used: %w", id, result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Update writes the given columns
func (r *repository) Update(ctx context.Context, id uint, values map[string]any) error {
	result := r.db.WithContext(ctx).Model(&common.Ticket{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return translate(result.Error, fmt.Sprintf("failed to update ticket %d", id))
	}
	return nil
}

// Delete removes the ticket; a missing id is not an error
func (r *repository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&common.Ticket{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete ticket %d: %w", id, err)
	}
	return nil
}

// Count counts all tickets
func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&common.Ticket{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// CountForEvent counts the tickets of an event
func (r *repository) CountForEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&common.Ticket{}).Where("event_id = ?", eventID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets for event %d: %w", eventID, err)
	}
	return count, nil
}

// ExportQuery is the base query for the export stream
func (r *repository) ExportQuery(ctx context.Context) *gorm.DB {
	return r.withRelations(ctx).Model(&common.Ticket{})
}

// translate maps constraint violations onto the common taxonomy.
func translate(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s: duplicate value", common.ErrInvalidArgument, msg)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s: referenced seller or event does not exist", common.ErrInvalidArgument, msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
