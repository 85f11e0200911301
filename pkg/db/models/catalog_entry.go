package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/muzammal-12/CarApp/pkg/enums"
)

// CatalogEntry is the per-(region, service key) pricing record. It owns an
// append-only quote log plus rollup counters derived from that log. Rollups
// are recomputed inside the same transaction as every append, so a reader
// never sees a quote without its rollup.
type CatalogEntry struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Region     string    `gorm:"column:region;not null;uniqueIndex:idx_catalog_region_key"`
	ServiceKey string    `gorm:"column:service_key;not null;uniqueIndex:idx_catalog_region_key"`

	Label         string         `gorm:"column:label;not null"`
	Currency      enums.Currency `gorm:"column:currency;not null;default:USD"`
	StandardHours *float64       `gorm:"column:standard_hours"`

	BaseRangeMin       *float64   `gorm:"column:base_range_min"`
	BaseRangeMax       *float64   `gorm:"column:base_range_max"`
	BaseRangeSource    *string    `gorm:"column:base_range_source"`
	BaseRangeUpdatedAt *time.Time `gorm:"column:base_range_updated_at"`

	QuotesCount     int     `gorm:"column:quotes_count;not null;default:0"`
	AvgUserPrice    float64 `gorm:"column:avg_user_price;not null;default:0"`
	FairCount       int     `gorm:"column:fair_count;not null;default:0"`
	OverpricedCount int     `gorm:"column:overpriced_count;not null;default:0"`
	UnknownCount    int     `gorm:"column:unknown_count;not null;default:0"`

	LastAssessmentProvider *string    `gorm:"column:last_assessment_provider"`
	LastAssessedAt         *time.Time `gorm:"column:last_assessed_at"`

	Quotes []UserQuote `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name independent of gorm pluralization rules.
func (CatalogEntry) TableName() string { return "catalog_entries" }

// BeforeCreate assigns the primary key client-side so the model works on both
// postgres and the sqlite test driver.
func (e *CatalogEntry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// HasBaseRange reports whether a curated baseline is present.
func (e *CatalogEntry) HasBaseRange() bool {
	return e != nil && e.BaseRangeMin != nil && e.BaseRangeMax != nil
}
