package service

import (
	"context"
	"time"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"

	"github.com/shopspring/decimal"
)

// HarvestWindow is the trailing period summed into monthly_harvest_kg.
const HarvestWindow = 30 * 24 * time.Hour

type Dashboard struct {
	StockByCategory  []repository.CategoryStock `json:"stock_by_category"`
	RecentOperations []model.Operation          `json:"recent_operations"`
	MonthlyHarvestKg decimal.Decimal            `json:"monthly_harvest_kg"`
}

type DashboardService interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Units(ctx context.Context) ([]model.Unit, error)
	OperationTypes(ctx context.Context) ([]model.OperationType, error)
	SeedlingsAvailable(ctx context.Context) ([]model.Seedling, error)
}

type dashboardService struct {
	dashboard repository.DashboardRepository
	ops       repository.OperationRepository
	harvests  repository.HarvestRepository
	lookups   repository.LookupRepository
	seedlings repository.SeedlingRepository
	now       func() time.Time
}

func NewDashboardService(
	dashboard repository.DashboardRepository,
	ops repository.OperationRepository,
	harvests repository.HarvestRepository,
	lookups repository.LookupRepository,
	seedlings repository.SeedlingRepository,
) DashboardService {
	return &dashboardService{
		dashboard: dashboard,
		ops:       ops,
		harvests:  harvests,
		lookups:   lookups,
		seedlings: seedlings,
		now:       time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	stock, err := s.dashboard.StockByCategory(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.ops.List(ctx, repository.OperationFilter{Limit: 10})
	if err != nil {
		return nil, err
	}
	since := today(s.now().Add(-HarvestWindow))
	harvested, err := s.harvests.SumSince(ctx, since)
	if err != nil {
		return nil, err
	}

	if stock == nil {
		stock = []repository.CategoryStock{}
	}
	if recent == nil {
		recent = []model.Operation{}
	}
	return &Dashboard{
		StockByCategory:  stock,
		RecentOperations: recent,
		MonthlyHarvestKg: harvested,
	}, nil
}

func (s *dashboardService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.lookups.Categories(ctx)
}

func (s *dashboardService) Units(ctx context.Context) ([]model.Unit, error) {
	return s.lookups.Units(ctx)
}

func (s *dashboardService) OperationTypes(ctx context.Context) ([]model.OperationType, error) {
	return s.lookups.OperationTypes(ctx)
}

func (s *dashboardService) SeedlingsAvailable(ctx context.Context) ([]model.Seedling, error) {
	return s.seedlings.FindAvailable(ctx)
}
