package migrations

import (
	"fmt"

	"catalog-service/apperrors"
	"catalog-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Integer codes for the product state enum. The tables below are the
// single source of truth for both migration directions.
const (
	StateCodeDraft    int16 = 0
	StateCodeActive   int16 = 1
	StateCodeInActive int16 = 2
	StateCodeDeleted  int16 = 3
)

// Fallback for values outside the known set, applied in both directions.
const (
	fallbackCode = StateCodeDraft
	fallbackName = models.ProductStateDraft
)

var stateCodes = map[string]int16{
	models.ProductStateDraft:    StateCodeDraft,
	models.ProductStateActive:   StateCodeActive,
	models.ProductStateInActive: StateCodeInActive,
	models.ProductStateDeleted:  StateCodeDeleted,
}

var stateNames = map[int16]string{
	StateCodeDraft:    models.ProductStateDraft,
	StateCodeActive:   models.ProductStateActive,
	StateCodeInActive: models.ProductStateInActive,
	StateCodeDeleted:  models.ProductStateDeleted,
}

// CodeForState maps a state string to its integer code, falling back to
// the draft code for unknown values.
func CodeForState(state string) int16 {
	if code, ok := stateCodes[state]; ok {
		return code
	}
	return fallbackCode
}

// StateForCode maps an integer code back to its state string, falling
// back to draft for unknown codes.
func StateForCode(code int16) string {
	if name, ok := stateNames[code]; ok {
		return name
	}
	return fallbackName
}

// UpProductStateEnum rewrites products.state from its string form to the
// integer-backed enum. The read, the column alter, and every row write run
// in one transaction; any row-count mismatch rolls the whole migration
// back.
func UpProductStateEnum(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var rows []struct {
			ID    uuid.UUID
			State string
		}
		if err := tx.Raw(`SELECT id, state FROM products`).Scan(&rows).Error; err != nil {
			return fmt.Errorf("read product states: %w", err)
		}

		if err := tx.Exec(`ALTER TABLE products ALTER COLUMN state DROP DEFAULT`).Error; err != nil {
			return fmt.Errorf("drop state default: %w", err)
		}
		// DDL cannot be parameterized; the interpolated values are package
		// constants, not user input.
		if err := tx.Exec(
			fmt.Sprintf(`ALTER TABLE products ALTER COLUMN state TYPE smallint USING %d::smallint`, fallbackCode),
		).Error; err != nil {
			return fmt.Errorf("alter state column to smallint: %w", err)
		}

		var updated int64
		for _, row := range rows {
			res := tx.Exec(`UPDATE products SET state = ? WHERE id = ?`, CodeForState(row.State), row.ID)
			if res.Error != nil {
				return fmt.Errorf("write state code for %s: %w", row.ID, res.Error)
			}
			updated += res.RowsAffected
		}
		if updated != int64(len(rows)) {
			return apperrors.New(apperrors.KindMigrationInconsistency,
				fmt.Sprintf("state enum migration: read %d rows, wrote %d", len(rows), updated),
				nil)
		}

		return tx.Exec(fmt.Sprintf(`ALTER TABLE products ALTER COLUMN state SET DEFAULT %d`, StateCodeDraft)).Error
	})
}

// DownProductStateEnum is the inverse transform, restoring the string
// column with the same rollback guarantee.
func DownProductStateEnum(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var rows []struct {
			ID    uuid.UUID
			State int16
		}
		if err := tx.Raw(`SELECT id, state FROM products`).Scan(&rows).Error; err != nil {
			return fmt.Errorf("read product state codes: %w", err)
		}

		if err := tx.Exec(`ALTER TABLE products ALTER COLUMN state DROP DEFAULT`).Error; err != nil {
			return fmt.Errorf("drop state default: %w", err)
		}
		if err := tx.Exec(
			fmt.Sprintf(`ALTER TABLE products ALTER COLUMN state TYPE varchar(20) USING '%s'::varchar`, fallbackName),
		).Error; err != nil {
			return fmt.Errorf("alter state column to varchar: %w", err)
		}

		var updated int64
		for _, row := range rows {
			res := tx.Exec(`UPDATE products SET state = ? WHERE id = ?`, StateForCode(row.State), row.ID)
			if res.Error != nil {
				return fmt.Errorf("write state name for %s: %w", row.ID, res.Error)
			}
			updated += res.RowsAffected
		}
		if updated != int64(len(rows)) {
			return apperrors.New(apperrors.KindMigrationInconsistency,
				fmt.Sprintf("state enum rollback: read %d rows, wrote %d", len(rows), updated),
				nil)
		}

		return tx.Exec(fmt.Sprintf(`ALTER TABLE products ALTER COLUMN state SET DEFAULT '%s'`, models.ProductStateDraft)).Error
	})
}
