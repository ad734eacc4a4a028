package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"csifest/models"
)

// GormStore is the production Store backed by MySQL. The *gorm.DB handle is
// pooled and shared; one GormStore serves all requests.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ResolveEvent(ctx context.Context, slug string) (*models.Event, error) {
	var ev models.Event
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

func (s *GormStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := s.db.WithContext(ctx).Order("id").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *GormStore) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	err := s.db.WithContext(ctx).Create(reg).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (s *GormStore) CreateParticipants(ctx context.Context, parts []models.Participant) error {
	return s.db.WithContext(ctx).Create(&parts).Error
}

func (s *GormStore) DeleteParticipantsByRegistration(ctx context.Context, registrationID uint32) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Delete(&models.Participant{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) DeleteRegistration(ctx context.Context, registrationID uint32) error {
	return s.db.WithContext(ctx).Delete(&models.Registration{}, registrationID).Error
}

func (s *GormStore) FetchRegistrationView(ctx context.Context, registrationID uint32) (*models.Registration, error) {
	var reg models.Registration
	err := s.db.WithContext(ctx).
		Preload("Event").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_leader DESC, id ASC")
		}).
		First(&reg, registrationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (s *GormStore) CountRegistrations(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Registration{}).Count(&count).Error
	return count, err
}

// WithinTx runs fn against a Store bound to one database transaction. An
// error from fn rolls everything back.
func (s *GormStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}
