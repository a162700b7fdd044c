package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied statement by statement at startup.  Every statement is
// idempotent so repeated boots are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		email         VARCHAR(320) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('default','admin') NOT NULL DEFAULT 'default',
		created_at    DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updated_at    DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		UNIQUE KEY users_email_index (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		user_id    CHAR(36)     NOT NULL,
		token_hash VARCHAR(255) NOT NULL,
		expires_at DATETIME(3)  NOT NULL,
		created_at DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updated_at DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		UNIQUE KEY sessions_token_hash_index (token_hash),
		KEY sessions_user_id_index (user_id),
		CONSTRAINT sessions_user_fk FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS clients (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		created_at DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updated_at DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		KEY clients_name_index (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS timesheet_entries (
		id           CHAR(36)      NOT NULL PRIMARY KEY,
		user_id      CHAR(36)      NOT NULL,
		client_id    CHAR(36)      NOT NULL,
		date         DATETIME(3)   NOT NULL,
		start_time   DATETIME(3)   NOT NULL,
		end_time     DATETIME(3)   NOT NULL,
		remarks      TEXT          NULL,
		total_hrs    DECIMAL(4,2)  NOT NULL,
		position     VARCHAR(255)  NOT NULL,
		site_address TEXT          NOT NULL,
		status       ENUM('pending','approved','rejected') NOT NULL DEFAULT 'pending',
		created_at   DATETIME(3)   NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updated_at   DATETIME(3)   NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		KEY timesheet_user_date_index (user_id, date, start_time),
		CONSTRAINT timesheet_user_fk FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE,
		CONSTRAINT timesheet_client_fk FOREIGN KEY (client_id) REFERENCES clients (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
