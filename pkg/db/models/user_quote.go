package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/muzammal-12/CarApp/pkg/enums"
)

// UserQuote is one submitted shop quote, immutable once appended. It is owned
// exclusively by its CatalogEntry and never referenced elsewhere. The
// assessment columns hold an optional snapshot of the AI verdict taken at
// submission time; a quote with no snapshot counts as unknown in rollups.
type UserQuote struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EntryID uuid.UUID `gorm:"column:entry_id;type:uuid;not null;index"`

	Price      float64 `gorm:"column:price;not null"`
	City       string  `gorm:"column:city"`
	VehicleRef string  `gorm:"column:vehicle_ref"`
	UserRef    string  `gorm:"column:user_ref"`
	Notes      string  `gorm:"column:notes"`

	AssessDecision   *enums.Verdict `gorm:"column:assess_decision"`
	AssessConfidence *float64       `gorm:"column:assess_confidence"`
	AssessRationale  *string        `gorm:"column:assess_rationale"`
	AssessFairMin    *float64       `gorm:"column:assess_fair_min"`
	AssessFairMax    *float64       `gorm:"column:assess_fair_max"`
	AssessProvider   *string        `gorm:"column:assess_provider"`
	ProviderNotes    pq.StringArray `gorm:"column:provider_notes;type:text[]"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the table name independent of gorm pluralization rules.
func (UserQuote) TableName() string { return "user_quotes" }

// BeforeCreate assigns the primary key client-side so the model works on both
// postgres and the sqlite test driver.
func (q *UserQuote) BeforeCreate(_ *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// Decision returns the snapshot verdict, or unknown when no snapshot exists.
func (q *UserQuote) Decision() enums.Verdict {
	if q == nil || q.AssessDecision == nil {
		return enums.VerdictUnknown
	}
	return *q.AssessDecision
}
