package sqlite

import (
	"database/sql"
	"time"

	"urlresolver/internal/domain"
	"urlresolver/internal/ports"
)

// catalogTx implements ports.CatalogTx
type catalogTx struct {
	tx *sql.Tx
}

var _ ports.CatalogTx = (*catalogTx)(nil)

// UpsertEntry inserts or replaces an entry and reports whether one existed
func (t *catalogTx) UpsertEntry(entry *domain.CatalogEntry) (bool, error) {
	var exists int
	err := t.tx.QueryRow(`
		SELECT COUNT(*) FROM entries WHERE kind = ? AND id = ?
	`, entry.Kind.String(), entry.ID).Scan(&exists)
	if err != nil {
		return false, err
	}

	_, err = t.tx.Exec(`
		INSERT OR REPLACE INTO entries (kind, id, name, parent)
		VALUES (?, ?, ?, ?)
	`, entry.Kind.String(), entry.ID, entry.Name, entry.Parent)
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// DeleteKind removes every entry of a kind
func (t *catalogTx) DeleteKind(kind domain.RouteKind) error {
	_, err := t.tx.Exec(`DELETE FROM entries WHERE kind = ?`, kind.String())
	return err
}

// RecordImport stores the statistics of an import batch
func (t *catalogTx) RecordImport(stats *domain.ImportStats, source string) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO imports (batch_id, source, added, replaced, skipped, duration_ms, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, stats.BatchID, source, stats.Added, stats.Replaced, stats.Skipped,
		stats.Duration.Milliseconds(), time.Now().UnixNano())
	return err
}

// Commit commits the transaction
func (t *catalogTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *catalogTx) Rollback() error {
	return t.tx.Rollback()
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
