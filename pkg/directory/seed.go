package directory

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Roster is the initial set of employees loaded at seed time
type Roster struct {
	Employees []Employee `yaml:"employees"`
}

// LoadRoster reads a roster file in YAML format
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}

	for i, e := range roster.Employees {
		if e.Name == "" {
			return nil, fmt.Errorf("roster employee %d has no name", i)
		}
		if e.CalAPIKey == "" {
			return nil, fmt.Errorf("roster employee %q has no cal_com_api_key", e.Name)
		}
	}

	return &roster, nil
}

// Seed inserts the roster into an empty employees table. If any employees
// already exist the roster is left untouched and Seed reports 0 inserted.
func Seed(ctx context.Context, db *sql.DB, roster *Roster) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO employees
			(id, name, email, position, department, preference,
			 cal_com_username, cal_com_api_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	inserted := 0
	for _, e := range roster.Employees {
		if _, err := tx.ExecContext(ctx, query,
			uuid.New().String(), e.Name, e.Email, e.Position, e.Department,
			e.Preference, e.CalUsername, e.CalAPIKey,
		); err != nil {
			return 0, fmt.Errorf("failed to insert employee %q: %w", e.Name, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	return inserted, nil
}
