package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const DefaultDocumentName = "pc_store"

// DocumentRecord stores one serialized document per row.
type DocumentRecord struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Body      string    `gorm:"type:text;not null"`
	Version   int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (DocumentRecord) TableName() string {
	return "documents"
}

// GormBackend keeps the whole document as a single row, which gives the
// SQL drivers the same whole-document semantics as the file backend.
type GormBackend struct {
	DB   *gorm.DB
	Name string
}

func NewGormBackend(ctx context.Context, db *gorm.DB, name string) (*GormBackend, error) {
	if name == "" {
		name = DefaultDocumentName
	}
	if err := db.WithContext(ctx).AutoMigrate(&DocumentRecord{}); err != nil {
		return nil, err
	}
	return &GormBackend{DB: db, Name: name}, nil
}

func (b *GormBackend) Read(ctx context.Context) ([]byte, error) {
	var rec DocumentRecord
	err := b.DB.WithContext(ctx).Where("name = ?", b.Name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return []byte(rec.Body), nil
}

func (b *GormBackend) Write(ctx context.Context, data []byte) error {
	return b.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&DocumentRecord{}).
			Where("name = ?", b.Name).
			Updates(map[string]any{
				"body":       string(data),
				"version":    gorm.Expr("version + ?", 1),
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&DocumentRecord{
			Name:      b.Name,
			Body:      string(data),
			Version:   1,
			UpdatedAt: time.Now().UTC(),
		}).Error
	})
}

// Version returns how many times the document has been written.
func (b *GormBackend) Version(ctx context.Context) (int64, error) {
	var rec DocumentRecord
	if err := b.DB.WithContext(ctx).Select("version").Where("name = ?", b.Name).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return rec.Version, nil
}
