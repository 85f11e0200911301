// Package catalog persists per-(region, service key) pricing entries and
// their append-only quote logs.
package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/muzammal-12/CarApp/pkg/db"
	"github.com/muzammal-12/CarApp/pkg/db/models"
	"github.com/muzammal-12/CarApp/pkg/enums"
)

// DefaultRegion is the scope used when a caller supplies no region.
const DefaultRegion = "global"

// ErrNotFound is returned by lookups for entries that have never seen a quote.
var ErrNotFound = errors.New("catalog entry not found")

// Repository owns catalog persistence. Appends are serialized per entry via a
// row lock inside a single transaction, so rollups and the quote log can
// never diverge.
type Repository struct {
	client *db.Client
}

// NewRepository constructs a catalog repository on the shared DB client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// NormalizeRegion applies the global default scope to empty regions.
func NormalizeRegion(region string) string {
	if region == "" {
		return DefaultRegion
	}
	return region
}

// Get returns the entry for (region, key) without its quote log.
func (r *Repository) Get(ctx context.Context, region, key string) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	err := r.client.DB().WithContext(ctx).
		Where("region = ? AND service_key = ?", NormalizeRegion(region), key).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetWithQuotes returns the entry with its quote log in insertion order.
func (r *Repository) GetWithQuotes(ctx context.Context, region, key string) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	err := r.client.DB().WithContext(ctx).
		Preload("Quotes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Where("region = ? AND service_key = ?", NormalizeRegion(region), key).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// AppendQuoteInput carries the entry attributes used on lazy creation plus
// the quote row itself.
type AppendQuoteInput struct {
	Label    string
	Currency enums.Currency
	Quote    models.UserQuote
}

// AppendQuote appends a quote to the (region, key) entry, creating the entry
// on first write, and recomputes rollups before the transaction commits.
// Readers therefore never observe a quote without its rollup update.
func (r *Repository) AppendQuote(ctx context.Context, region, key string, in AppendQuoteInput) (*models.CatalogEntry, error) {
	region = NormalizeRegion(region)

	var result *models.CatalogEntry
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		entry, err := r.lockEntry(tx, region, key)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			entry, err = r.createEntry(tx, &models.CatalogEntry{
				Region:     region,
				ServiceKey: key,
				Label:      in.Label,
				Currency:   in.Currency,
			})
			if err != nil {
				return err
			}
		}

		quote := in.Quote
		quote.EntryID = entry.ID
		if err := tx.Create(&quote).Error; err != nil {
			return err
		}

		var quotes []models.UserQuote
		if err := tx.Where("entry_id = ?", entry.ID).
			Order("created_at ASC, id ASC").
			Find(&quotes).Error; err != nil {
			return err
		}

		applyRollups(entry, quotes)
		if quote.AssessProvider != nil {
			entry.LastAssessmentProvider = quote.AssessProvider
			now := time.Now().UTC()
			entry.LastAssessedAt = &now
		}

		if err := tx.Model(&models.CatalogEntry{}).
			Where("id = ?", entry.ID).
			Updates(map[string]any{
				"quotes_count":             entry.QuotesCount,
				"avg_user_price":           entry.AvgUserPrice,
				"fair_count":               entry.FairCount,
				"overpriced_count":         entry.OverpricedCount,
				"unknown_count":            entry.UnknownCount,
				"last_assessment_provider": entry.LastAssessmentProvider,
				"last_assessed_at":         entry.LastAssessedAt,
			}).Error; err != nil {
			return err
		}

		entry.Quotes = quotes
		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpsertBaseRange records or replaces the curated baseline for (region, key),
// creating the entry when none exists yet.
func (r *Repository) UpsertBaseRange(ctx context.Context, region, key, label string, currency enums.Currency, min, max float64, source string) (*models.CatalogEntry, error) {
	region = NormalizeRegion(region)

	var result *models.CatalogEntry
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		entry, err := r.lockEntry(tx, region, key)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			entry, err = r.createEntry(tx, &models.CatalogEntry{
				Region:     region,
				ServiceKey: key,
				Label:      label,
				Currency:   currency,
			})
			if err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		entry.BaseRangeMin = &min
		entry.BaseRangeMax = &max
		entry.BaseRangeSource = &source
		entry.BaseRangeUpdatedAt = &now

		if err := tx.Model(&models.CatalogEntry{}).
			Where("id = ?", entry.ID).
			Updates(map[string]any{
				"base_range_min":        entry.BaseRangeMin,
				"base_range_max":        entry.BaseRangeMax,
				"base_range_source":     entry.BaseRangeSource,
				"base_range_updated_at": entry.BaseRangeUpdatedAt,
			}).Error; err != nil {
			return err
		}

		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// createEntry inserts a fresh entry inside the caller's transaction. The
// insert runs under a savepoint: when a concurrent first write wins the race
// on the unique (region, key) index, postgres marks the transaction aborted,
// so the savepoint must be rolled back before the winner's row can be
// re-read under the lock.
func (r *Repository) createEntry(tx *gorm.DB, entry *models.CatalogEntry) (*models.CatalogEntry, error) {
	if entry.Label == "" {
		entry.Label = entry.ServiceKey
	}
	if entry.Currency == "" {
		entry.Currency = enums.CurrencyUSD
	}

	if err := tx.SavePoint("entry_insert").Error; err != nil {
		return nil, err
	}
	if err := tx.Create(entry).Error; err != nil {
		if !db.IsUniqueViolation(err, "idx_catalog_region_key") {
			return nil, err
		}
		if err := tx.RollbackTo("entry_insert").Error; err != nil {
			return nil, err
		}
		return r.lockEntry(tx, entry.Region, entry.ServiceKey)
	}
	return entry, nil
}

// lockEntry reads the entry under FOR UPDATE on postgres. The sqlite driver
// serializes writers on its own, so the clause is skipped there.
func (r *Repository) lockEntry(tx *gorm.DB, region, key string) (*models.CatalogEntry, error) {
	query := tx.Where("region = ? AND service_key = ?", region, key)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var entry models.CatalogEntry
	if err := query.First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
