package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"printer-repair-backend/internal/model"
)

// ErrNotFound is returned when a mutation targets a row that does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines all operations against the remote data store. The dashboard
// engine only reads (FetchX); the API handlers mutate and then publish the
// matching change event.
type Store interface {
	DB() *gorm.DB

	FetchBookings(ctx context.Context) ([]model.Booking, error)
	FetchTechnicians(ctx context.Context) ([]model.Technician, error)
	FetchPrinterBrands(ctx context.Context) ([]model.PrinterBrand, error)
	FetchProblemCategories(ctx context.Context) ([]model.ProblemCategory, error)

	CreateBooking(ctx context.Context, b *model.Booking) error
	UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) error
	AssignTechnician(ctx context.Context, bookingID, technician string) error

	CreateTechnician(ctx context.Context, t *model.Technician) error
	UpdateTechnician(ctx context.Context, t *model.Technician) error
	DeleteTechnician(ctx context.Context, id string) error

	CreatePrinterBrand(ctx context.Context, name string) (*model.PrinterBrand, error)
	UpdatePrinterBrand(ctx context.Context, id, name string) error
	DeletePrinterBrand(ctx context.Context, id string) error
	CreatePrinterModel(ctx context.Context, brandID, name string, printerType model.PrinterType) (*model.PrinterModel, error)
	DeletePrinterModel(ctx context.Context, id string) error

	CreateProblemCategory(ctx context.Context, name, icon string) (*model.ProblemCategory, error)
	UpdateProblemCategory(ctx context.Context, id, name, icon string) error
	DeleteProblemCategory(ctx context.Context, id string) error
	CreateProblem(ctx context.Context, p *model.Problem) error
	DeleteProblem(ctx context.Context, id string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// FetchBookings returns all bookings, newest first. The engine's new-booking
// diff relies on this being the complete authoritative list.
func (s *gormStore) FetchBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("fetch bookings: %w", err)
	}
	return bookings, nil
}

func (s *gormStore) FetchTechnicians(ctx context.Context) ([]model.Technician, error) {
	var technicians []model.Technician
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&technicians).Error; err != nil {
		return nil, fmt.Errorf("fetch technicians: %w", err)
	}
	return technicians, nil
}

// FetchPrinterBrands returns all brands with their models preloaded. Models
// only ever appear under their owning brand.
func (s *gormStore) FetchPrinterBrands(ctx context.Context) ([]model.PrinterBrand, error) {
	var brands []model.PrinterBrand
	err := s.db.WithContext(ctx).
		Preload("Models", func(db *gorm.DB) *gorm.DB {
			return db.Order("printer_models.created_at ASC")
		}).
		Order("name ASC").
		Find(&brands).Error
	if err != nil {
		return nil, fmt.Errorf("fetch printer brands: %w", err)
	}
	return brands, nil
}

func (s *gormStore) FetchProblemCategories(ctx context.Context) ([]model.ProblemCategory, error) {
	var categories []model.ProblemCategory
	err := s.db.WithContext(ctx).
		Preload("Problems", func(db *gorm.DB) *gorm.DB {
			return db.Order("problems.created_at ASC")
		}).
		Order("created_at ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("fetch problem categories: %w", err)
	}
	return categories, nil
}

func (s *gormStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = model.StatusPending
	}
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) error {
	res := s.db.WithContext(ctx).Model(&model.Booking{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update booking status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) AssignTechnician(ctx context.Context, bookingID, technician string) error {
	res := s.db.WithContext(ctx).Model(&model.Booking{}).Where("id = ?", bookingID).Update("technician", technician)
	if res.Error != nil {
		return fmt.Errorf("assign technician: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) CreateTechnician(ctx context.Context, t *model.Technician) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create technician: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateTechnician(ctx context.Context, t *model.Technician) error {
	res := s.db.WithContext(ctx).Model(&model.Technician{}).Where("id = ?", t.ID).
		Select("name", "phone", "email", "experience", "rating", "specialization", "schedule", "is_available", "is_active").
		Updates(t)
	if res.Error != nil {
		return fmt.Errorf("update technician: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) DeleteTechnician(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Technician{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete technician: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) CreatePrinterBrand(ctx context.Context, name string) (*model.PrinterBrand, error) {
	brand := model.PrinterBrand{ID: uuid.NewString(), Name: name}
	if err := s.db.WithContext(ctx).Create(&brand).Error; err != nil {
		return nil, fmt.Errorf("create printer brand: %w", err)
	}
	return &brand, nil
}

func (s *gormStore) UpdatePrinterBrand(ctx context.Context, id, name string) error {
	res := s.db.WithContext(ctx).Model(&model.PrinterBrand{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return fmt.Errorf("update printer brand: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePrinterBrand removes a brand and all models it owns.
func (s *gormStore) DeletePrinterBrand(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.PrinterModel{}, "brand_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete brand models: %w", err)
		}
		res := tx.Delete(&model.PrinterBrand{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete printer brand: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *gormStore) CreatePrinterModel(ctx context.Context, brandID, name string, printerType model.PrinterType) (*model.PrinterModel, error) {
	printerModel := model.PrinterModel{
		ID:      uuid.NewString(),
		BrandID: brandID,
		Name:    name,
		Type:    printerType,
	}
	if err := s.db.WithContext(ctx).Create(&printerModel).Error; err != nil {
		return nil, fmt.Errorf("create printer model: %w", err)
	}
	return &printerModel, nil
}

func (s *gormStore) DeletePrinterModel(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.PrinterModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete printer model: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) CreateProblemCategory(ctx context.Context, name, icon string) (*model.ProblemCategory, error) {
	category := model.ProblemCategory{ID: uuid.NewString(), Name: name, Icon: icon}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create problem category: %w", err)
	}
	return &category, nil
}

func (s *gormStore) UpdateProblemCategory(ctx context.Context, id, name, icon string) error {
	res := s.db.WithContext(ctx).Model(&model.ProblemCategory{}).Where("id = ?", id).
		Updates(map[string]any{"name": name, "icon": icon})
	if res.Error != nil {
		return fmt.Errorf("update problem category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProblemCategory removes a category and all problems it owns.
func (s *gormStore) DeleteProblemCategory(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Problem{}, "category_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete category problems: %w", err)
		}
		res := tx.Delete(&model.ProblemCategory{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete problem category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *gormStore) CreateProblem(ctx context.Context, p *model.Problem) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create problem: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteProblem(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Problem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete problem: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
