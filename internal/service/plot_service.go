package service

import (
	"context"
	"strings"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"

	"github.com/shopspring/decimal"
)

type PlotService interface {
	ListActive(ctx context.Context) ([]model.Plot, error)
	Create(ctx context.Context, req *CreatePlotRequest, actor string) (*model.Plot, error)
}

type CreatePlotRequest struct {
	Code    string              `json:"code" validate:"required,max=30"`
	Name    string              `json:"name" validate:"required"`
	AreaSqm decimal.NullDecimal `json:"area_sqm"`
	Notes   string              `json:"notes"`
}

type plotService struct {
	plots repository.PlotRepository
}

func NewPlotService(plots repository.PlotRepository) PlotService {
	return &plotService{plots: plots}
}

func (s *plotService) ListActive(ctx context.Context) ([]model.Plot, error) {
	return s.plots.FindActive(ctx)
}

func (s *plotService) Create(ctx context.Context, req *CreatePlotRequest, actor string) (*model.Plot, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.AreaSqm.Valid && req.AreaSqm.Decimal.IsNegative() {
		return nil, invalid("area_sqm cannot be negative")
	}

	plot := &model.Plot{
		Code:    strings.TrimSpace(req.Code),
		Name:    strings.TrimSpace(req.Name),
		AreaSqm: req.AreaSqm,
		Notes:   req.Notes,
		Active:  true,
	}
	plot.Stamp(actor)

	if err := s.plots.Create(ctx, plot); err != nil {
		logFailure("PlotService.Create", "create plot", req, err)
		return nil, err
	}
	return plot, nil
}
