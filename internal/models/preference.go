package models

import "time"

// Preference is one entry in a flat, namespaced key-value store. Each theme
// field is persisted as its own Preference row.
type Preference struct {
	Namespace string    `gorm:"primaryKey;type:varchar(32)" json:"namespace"`
	Key       string    `gorm:"primaryKey;type:varchar(32)" json:"key"`
	Value     uint32    `gorm:"type:bigint;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for preferences.
func (Preference) TableName() string {
	return "preferences"
}

// Validate checks required fields.
func (p *Preference) Validate() error {
	if p.Namespace == "" {
		return ErrNamespaceRequired
	}
	if p.Key == "" {
		return ErrKeyRequired
	}
	return nil
}
