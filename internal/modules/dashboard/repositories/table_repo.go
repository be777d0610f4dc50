package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

// MissingColumnError reports a collection that does not honour its contract.
// Column is "*" when the collection itself is absent.
type MissingColumnError struct {
	Collection string
	Column     string
}

func (e *MissingColumnError) Error() string {
	if e.Column == "*" {
		return fmt.Sprintf("collection %q not found", e.Collection)
	}
	return fmt.Sprintf("collection %q is missing column %q", e.Collection, e.Column)
}

// TableRepo reads whole collections from the data store
type TableRepo interface {
	Fetch(ctx context.Context, collection string) ([]map[string]interface{}, error)
	Verify(ctx context.Context, contract models.Contract) error
	Ping(ctx context.Context) error
}

type tableRepo struct {
	db *gorm.DB
}

func NewTableRepo(db *gorm.DB) TableRepo {
	return &tableRepo{db: db}
}

// Fetch returns every record of a collection as column -> value maps.
// Collection names are mixed case, so they are quoted explicitly.
func (r *tableRepo) Fetch(ctx context.Context, collection string) ([]map[string]interface{}, error) {
	var records []map[string]interface{}
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM " + pq.QuoteIdentifier(collection)).
		Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}
	if records == nil {
		records = []map[string]interface{}{}
	}
	return records, nil
}

// Verify checks that every required column of the contract exists
func (r *tableRepo) Verify(ctx context.Context, contract models.Contract) error {
	if len(contract.Required) == 0 {
		return nil
	}

	var found []string
	err := r.db.WithContext(ctx).
		Raw(`SELECT column_name FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ? AND column_name = ANY(?)`,
			contract.Collection, pq.Array(contract.Required)).
		Scan(&found).Error
	if err != nil {
		return fmt.Errorf("verify %s: %w", contract.Collection, err)
	}

	if len(found) == 0 {
		return &MissingColumnError{Collection: contract.Collection, Column: "*"}
	}

	have := make(map[string]bool, len(found))
	for _, c := range found {
		have[c] = true
	}

	var missing []string
	for _, c := range contract.Required {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingColumnError{Collection: contract.Collection, Column: missing[0]}
	}
	return nil
}

func (r *tableRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
