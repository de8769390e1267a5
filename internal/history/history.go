package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Ning0612/Sortrules/internal/domain"
)

// Manager persists the operation ledger
type Manager struct {
	db *sql.DB
}

// Record represents a single completed operation
type Record struct {
	ID         string
	Operation  domain.OperationType
	Directory  string
	Items      int
	Status     string // "success", "failed", "partial"
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewManager creates a new history manager
func NewManager(dataDir string) (*Manager, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sortrules.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Limit connection pool to prevent "database is locked" errors
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Enable WAL mode for better concurrency and set busy timeout
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode and busy timeout: %w", err)
	}

	manager := &Manager{db: db}

	// Initialize schema
	if err := manager.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return manager, nil
}

// initSchema creates the database schema
func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS operations (
		id TEXT PRIMARY KEY,
		operation TEXT NOT NULL,
		directory TEXT NOT NULL,
		items INTEGER DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_operations_time ON operations(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_operations_type ON operations(operation);
	`

	_, err := m.db.Exec(schema)
	return err
}

// Save records a completed operation. A record without an ID is assigned one.
func (m *Manager) Save(record Record) error {
	// Validate operation and status
	if !record.Operation.IsValid() {
		return fmt.Errorf("invalid operation: %s", record.Operation)
	}
	if record.Status != "success" && record.Status != "failed" && record.Status != "partial" {
		return fmt.Errorf("invalid status: %s (must be 'success', 'failed', or 'partial')", record.Status)
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	query := `
		INSERT INTO operations (id, operation, directory, items, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := m.db.Exec(query,
		record.ID,
		string(record.Operation),
		record.Directory,
		record.Items,
		record.Status,
		record.Error,
		record.StartedAt,
		record.FinishedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save operation record: %w", err)
	}

	return nil
}

// List retrieves recent operations, newest first
func (m *Manager) List(limit int) ([]Record, error) {
	// Validate limit
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `
		SELECT id, operation, directory, items, status, error, started_at, finished_at
		FROM operations
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListByOperation retrieves recent operations of one kind, newest first
func (m *Manager) ListByOperation(op domain.OperationType, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `
		SELECT id, operation, directory, items, status, error, started_at, finished_at
		FROM operations
		WHERE operation = ?
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, string(op), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var record Record
		err := rows.Scan(
			&record.ID,
			&record.Operation,
			&record.Directory,
			&record.Items,
			&record.Status,
			&record.Error,
			&record.StartedAt,
			&record.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// Clear removes every record from the ledger
func (m *Manager) Clear() error {
	if _, err := m.db.Exec("DELETE FROM operations"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
