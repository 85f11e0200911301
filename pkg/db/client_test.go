package db

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/muzammal-12/CarApp/pkg/config"
)

type txRow struct {
	ID    uint `gorm:"primaryKey"`
	Value string
}

func newTestClient(t *testing.T, name string) *Client {
	t.Helper()
	client, err := New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	}, nil)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t, "db_ping")
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	client := newTestClient(t, "db_tx_commit")
	if err := client.DB().AutoMigrate(&txRow{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&txRow{Value: "kept"}).Error
	})
	if err != nil {
		t.Fatalf("tx failed: %v", err)
	}

	var count int64
	client.DB().Model(&txRow{}).Count(&count)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newTestClient(t, "db_tx_rollback")
	if err := client.DB().AutoMigrate(&txRow{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	boom := errors.New("boom")
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&txRow{Value: "discarded"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	client.DB().Model(&txRow{}).Count(&count)
	if count != 0 {
		t.Fatalf("count = %d, want rollback to 0", count)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_catalog_region_key"`), "idx_catalog_region_key") {
		t.Fatal("postgres spelling not detected")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: catalog_entries.region"), "") {
		t.Fatal("sqlite spelling not detected")
	}
	if IsUniqueViolation(errors.New("connection refused"), "idx") {
		t.Fatal("unrelated error misclassified")
	}
	if IsUniqueViolation(nil, "idx") {
		t.Fatal("nil error misclassified")
	}
}
