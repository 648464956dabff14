package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/auratheme/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// preferenceRepository implements PreferenceRepository using GORM. "key" is
// reserved in MySQL, so references to it go through clause builders to be quoted.
type preferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new PreferenceRepository.
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// GetUint retrieves a single value.
func (r *preferenceRepository) GetUint(ctx context.Context, namespace, key string) (uint32, bool, error) {
	var pref models.Preference
	err := r.db.WithContext(ctx).
		Where(map[string]any{"namespace": namespace, "key": key}).
		Take(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading preference %s/%s: %w", namespace, key, err)
	}
	return pref.Value, true, nil
}

// PutUint upserts a single value.
func (r *preferenceRepository) PutUint(ctx context.Context, namespace, key string, value uint32) error {
	pref := &models.Preference{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if err := pref.Validate(); err != nil {
		return fmt.Errorf("validating preference: %w", err)
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(pref).Error
	if err != nil {
		return fmt.Errorf("writing preference %s/%s: %w", namespace, key, err)
	}
	return nil
}

// List retrieves all entries in a namespace.
func (r *preferenceRepository) List(ctx context.Context, namespace string) ([]*models.Preference, error) {
	var prefs []*models.Preference
	if err := r.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("listing preferences in %s: %w", namespace, err)
	}
	return prefs, nil
}

// DeleteNamespace removes all entries in a namespace.
func (r *preferenceRepository) DeleteNamespace(ctx context.Context, namespace string) error {
	if namespace == "" {
		return models.ErrNamespaceRequired
	}
	if err := r.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Delete(&models.Preference{}).Error; err != nil {
		return fmt.Errorf("deleting preferences in %s: %w", namespace, err)
	}
	return nil
}
