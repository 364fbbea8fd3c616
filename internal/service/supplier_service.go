package service

import (
	"context"
	"strings"
	"time"

	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"

	"gorm.io/gorm"
)

type SupplierService interface {
	List(ctx context.Context) ([]model.Supplier, error)
	Get(ctx context.Context, id uint) (*model.Supplier, error)
	Create(ctx context.Context, req *CreateSupplierRequest, actor string) (*model.Supplier, error)
	Update(ctx context.Context, id uint, req *UpdateSupplierRequest, actor string) (*model.Supplier, error)
}

type CreateSupplierRequest struct {
	Name      string `json:"name" validate:"required"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Province  string `json:"province"`
	ZipCode   string `json:"zip_code"`
	VatNumber string `json:"vat_number"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"omitempty,email"`
	Notes     string `json:"notes"`
}

// UpdateSupplierRequest changes only the fields that are present.
type UpdateSupplierRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Province  *string `json:"province"`
	ZipCode   *string `json:"zip_code"`
	VatNumber *string `json:"vat_number"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Notes     *string `json:"notes"`
}

func (r *UpdateSupplierRequest) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	set("name", r.Name)
	set("address", r.Address)
	set("city", r.City)
	set("province", r.Province)
	set("zip_code", r.ZipCode)
	set("vat_number", r.VatNumber)
	set("phone", r.Phone)
	set("email", r.Email)
	set("notes", r.Notes)
	return fields
}

type supplierService struct {
	db        *gorm.DB
	suppliers repository.SupplierRepository
	codes     *CodeAllocator
}

func NewSupplierService(db *gorm.DB, suppliers repository.SupplierRepository, codes *CodeAllocator) SupplierService {
	return &supplierService{db: db, suppliers: suppliers, codes: codes}
}

func (s *supplierService) List(ctx context.Context) ([]model.Supplier, error) {
	return s.suppliers.FindAll(ctx)
}

func (s *supplierService) Get(ctx context.Context, id uint) (*model.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "supplier", id)
	}
	return supplier, nil
}

func (s *supplierService) Create(ctx context.Context, req *CreateSupplierRequest, actor string) (*model.Supplier, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	supplier := &model.Supplier{
		Name:      strings.TrimSpace(req.Name),
		Address:   req.Address,
		City:      req.City,
		Province:  req.Province,
		ZipCode:   req.ZipCode,
		VatNumber: req.VatNumber,
		Phone:     req.Phone,
		Email:     req.Email,
		Notes:     req.Notes,
	}
	supplier.Stamp(actor)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := s.codes.SupplierCode(tx)
		if err != nil {
			return err
		}
		supplier.Code = code
		return s.suppliers.Create(tx, supplier)
	})
	if err != nil {
		logFailure("SupplierService.Create", "create supplier", req, err)
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) Update(ctx context.Context, id uint, req *UpdateSupplierRequest, actor string) (*model.Supplier, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	fields := req.fields()
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}
	fields["updated_by"] = actor
	fields["updated_at"] = time.Now()

	if err := s.suppliers.Update(ctx, id, fields); err != nil {
		err = mapNotFound(err, "supplier", id)
		logFailure("SupplierService.Update", "update supplier", id, err)
		return nil, err
	}
	return s.Get(ctx, id)
}
