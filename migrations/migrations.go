package migrations

import (
	"database/sql"
	"time"
)

// Statements run in FK dependency order. Cascade and SET NULL behavior lives
// in the schema, not in application code.
var tables = []string{
	`
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(100) NOT NULL,
		password VARCHAR(255) NOT NULL,
		can_be_contacted BOOLEAN NOT NULL DEFAULT FALSE,
		can_data_be_shared BOOLEAN NOT NULL DEFAULT FALSE,
		age INT NOT NULL,
		created_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS projects (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(100) NOT NULL,
		description TEXT NOT NULL,
		type VARCHAR(10) NOT NULL,
		author_id INT NOT NULL,
		created_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS contributors (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		project_id INT NOT NULL,
		role VARCHAR(15) NOT NULL DEFAULT 'CONTRIBUTOR',
		UNIQUE KEY user_project_idx (user_id, project_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS issues (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(100) NOT NULL,
		description TEXT NOT NULL,
		priority VARCHAR(10) NOT NULL,
		tag VARCHAR(10) NOT NULL,
		status VARCHAR(15) NOT NULL DEFAULT 'TODO',
		project_id INT NOT NULL,
		author_id INT NOT NULL,
		assignee_id INT NULL,
		created_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (assignee_id) REFERENCES users(id) ON DELETE SET NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS comments (
		uuid CHAR(36) PRIMARY KEY,
		text TEXT NOT NULL,
		issue_id INT NOT NULL,
		author_id INT NOT NULL,
		created_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE,
		FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE
	);
	`,
}

// AutoMigrate creates the tracker tables if they do not exist.
func AutoMigrate(retries int, db *sql.DB) error {
	for _, query := range tables {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
