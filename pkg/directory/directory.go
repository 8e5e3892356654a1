// Package directory is the employee identity lookup store. The
// coordination engine only ever reads from it; rows are written once at
// seed time.
package directory

import "context"

// Employee is an identity record in the company directory
type Employee struct {
	ID         string `json:"id" yaml:"-"`
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	Position   int    `json:"position" yaml:"position"`
	Department string `json:"department" yaml:"department"`
	Preference string `json:"preference" yaml:"preference"`
	// Cal.com identity
	CalUsername string `json:"cal_com_username" yaml:"cal_com_username"`
	CalAPIKey   string `json:"-" yaml:"cal_com_api_key"`
}

// Store resolves employee identities
type Store interface {
	// FindByName returns the employee with the given name, or nil if
	// no such employee exists.
	FindByName(ctx context.Context, name string) (*Employee, error)

	// Departments returns the distinct set of department names.
	Departments(ctx context.Context) ([]string, error)

	// NamesInDepartment returns the names of all employees in a department.
	NamesInDepartment(ctx context.Context, department string) ([]string, error)
}
