package directory

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore implements Store over the employees table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a directory store backed by the given database
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindByName returns the employee with the given name, or nil if absent
func (s *PostgresStore) FindByName(ctx context.Context, name string) (*Employee, error) {
	query := `
		SELECT id, name, email, position, department, preference,
		       cal_com_username, cal_com_api_key
		FROM employees
		WHERE name = $1
		LIMIT 1
	`

	var e Employee
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&e.ID, &e.Name, &e.Email, &e.Position, &e.Department,
		&e.Preference, &e.CalUsername, &e.CalAPIKey,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query employee %q: %w", name, err)
	}

	return &e, nil
}

// Departments returns the distinct set of department names
func (s *PostgresStore) Departments(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT department FROM employees`)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer rows.Close()

	var departments []string
	for rows.Next() {
		var dept string
		if err := rows.Scan(&dept); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, dept)
	}

	return departments, rows.Err()
}

// NamesInDepartment returns the names of all employees in a department
func (s *PostgresStore) NamesInDepartment(ctx context.Context, department string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM employees WHERE department = $1`, department)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees in %q: %w", department, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan employee name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
