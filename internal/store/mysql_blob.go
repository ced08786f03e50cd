package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/db"
)

const mysqlBlobTable = "app_data"

// MySQLBlob stores the snapshot as one row of a key/value table.
type MySQLBlob struct {
	DB  *sql.DB
	Key string
}

// EnsureSchema creates the key/value table, or adds updated_at to a table
// created before that column existed.
func (m MySQLBlob) EnsureSchema(ctx context.Context) error {
	if !db.HasTable(ctx, m.DB, mysqlBlobTable) {
		_, err := m.DB.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS app_data (
				data_key   VARCHAR(191) NOT NULL PRIMARY KEY,
				data       LONGTEXT     NOT NULL,
				updated_at DATETIME     NOT NULL
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
		`)
		if err != nil {
			return fmt.Errorf("create %s: %w", mysqlBlobTable, err)
		}
		return nil
	}
	if !db.HasColumn(ctx, m.DB, mysqlBlobTable, "updated_at") {
		if _, err := m.DB.ExecContext(ctx, `ALTER TABLE app_data ADD COLUMN updated_at DATETIME NULL`); err != nil {
			return fmt.Errorf("migrate %s: %w", mysqlBlobTable, err)
		}
	}
	return nil
}

func (m MySQLBlob) Load(ctx context.Context) ([]byte, error) {
	var data string
	err := m.DB.QueryRowContext(ctx, `SELECT data FROM app_data WHERE data_key = ?`, m.Key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", m.Key, err)
	}
	return []byte(data), nil
}

func (m MySQLBlob) Save(ctx context.Context, data []byte) error {
	_, err := m.DB.ExecContext(ctx, `
		INSERT INTO app_data (data_key, data, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)
	`, m.Key, string(data), time.Now())
	if err != nil {
		return fmt.Errorf("save %s: %w", m.Key, err)
	}
	return nil
}
