package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryStock is the positive stock held in one category.
type CategoryStock struct {
	Category   string          `json:"category"`
	BatchCount int64           `json:"batch_count"`
	TotalQty   decimal.Decimal `json:"total_qty"`
}

type DashboardRepository interface {
	StockByCategory(ctx context.Context) ([]CategoryStock, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db: db}
}

func (r *dashboardRepo) StockByCategory(ctx context.Context) ([]CategoryStock, error) {
	var rows []CategoryStock
	err := r.db.WithContext(ctx).Table("batches b").
		Select("COALESCE(c.name, 'Uncategorized') AS category, COUNT(b.id) AS batch_count, COALESCE(SUM(b.current_qty), 0) AS total_qty").
		Joins("JOIN products p ON p.id = b.product_id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("b.current_qty > 0").
		Group("COALESCE(c.name, 'Uncategorized')").
		Order("category").
		Scan(&rows).Error
	return rows, err
}
