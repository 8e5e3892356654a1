package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/npash/officemgr/pkg/directory"
	"github.com/npash/officemgr/pkg/metrics"
)

// DepartmentsTool lists all departments in the company
type DepartmentsTool struct {
	directory directory.Store
}

// NewDepartmentsTool creates the get_all_departments tool
func NewDepartmentsTool(store directory.Store) *DepartmentsTool {
	return &DepartmentsTool{directory: store}
}

func (t *DepartmentsTool) Name() string {
	return "get_all_departments"
}

func (t *DepartmentsTool) Description() string {
	return "Get the list of all company departments."
}

func (t *DepartmentsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *DepartmentsTool) Execute(ctx context.Context, args map[string]interface{}) (*Result, error) {
	departments, err := t.directory.Departments(ctx)
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "error").Inc()
		return errorResult(err), nil
	}

	metrics.ToolCallsTotal.WithLabelValues(t.Name(), "ok").Inc()
	return &Result{
		Success: true,
		Output:  fmt.Sprintf("Departments: %s", strings.Join(departments, ", ")),
		Data:    map[string]interface{}{"departments": departments},
	}, nil
}

// DepartmentEmployeesRequest holds the arguments for the department listing
type DepartmentEmployeesRequest struct {
	Department string `json:"department"`
}

// DepartmentEmployeesTool lists employee names in one department
type DepartmentEmployeesTool struct {
	directory directory.Store
}

// NewDepartmentEmployeesTool creates the get_all_employees_from_department tool
func NewDepartmentEmployeesTool(store directory.Store) *DepartmentEmployeesTool {
	return &DepartmentEmployeesTool{directory: store}
}

func (t *DepartmentEmployeesTool) Name() string {
	return "get_all_employees_from_department"
}

func (t *DepartmentEmployeesTool) Description() string {
	return "Get the names of all employees in a department."
}

func (t *DepartmentEmployeesTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"department": map[string]interface{}{
				"type":        "string",
				"description": "Department name, e.g. \"Sales\"",
			},
		},
		"required": []interface{}{"department"},
	}
}

func (t *DepartmentEmployeesTool) Execute(ctx context.Context, args map[string]interface{}) (*Result, error) {
	var req DepartmentEmployeesRequest
	if err := decodeArgs(t.InputSchema(), args, &req); err != nil {
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "invalid").Inc()
		return ErrorResult(err.Error()), nil
	}

	names, err := t.directory.NamesInDepartment(ctx, req.Department)
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "error").Inc()
		return errorResult(err), nil
	}

	metrics.ToolCallsTotal.WithLabelValues(t.Name(), "ok").Inc()
	return &Result{
		Success: true,
		Output:  fmt.Sprintf("Employees in %s: %s", req.Department, strings.Join(names, ", ")),
		Data: map[string]interface{}{
			"department": req.Department,
			"employees":  names,
		},
	}, nil
}

// EmployeeInfoRequest holds the arguments for the employee profile lookup
type EmployeeInfoRequest struct {
	Name string `json:"name"`
}

// EmployeeInfoTool returns the full directory record for one employee
type EmployeeInfoTool struct {
	directory directory.Store
}

// NewEmployeeInfoTool creates the get_full_employee_info tool
func NewEmployeeInfoTool(store directory.Store) *EmployeeInfoTool {
	return &EmployeeInfoTool{directory: store}
}

func (t *EmployeeInfoTool) Name() string {
	return "get_full_employee_info"
}

func (t *EmployeeInfoTool) Description() string {
	return "Get an employee's full profile: email, position, department, and meeting preferences."
}

func (t *EmployeeInfoTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Employee full name as stored in the directory",
			},
		},
		"required": []interface{}{"name"},
	}
}

func (t *EmployeeInfoTool) Execute(ctx context.Context, args map[string]interface{}) (*Result, error) {
	var req EmployeeInfoRequest
	if err := decodeArgs(t.InputSchema(), args, &req); err != nil {
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "invalid").Inc()
		return ErrorResult(err.Error()), nil
	}

	employee, err := t.directory.FindByName(ctx, req.Name)
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "error").Inc()
		return errorResult(err), nil
	}
	if employee == nil {
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "not_found").Inc()
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("employee %q not found in directory", req.Name),
			Output:  fmt.Sprintf("Employee %q was not found in the directory.", req.Name),
			Data: map[string]interface{}{
				"error_kind": "not_found",
				"employee":   req.Name,
			},
		}, nil
	}

	metrics.ToolCallsTotal.WithLabelValues(t.Name(), "ok").Inc()
	return &Result{
		Success: true,
		Output: fmt.Sprintf("%s (%s, %s): position %d, prefers: %s",
			employee.Name, employee.Department, employee.Email,
			employee.Position, employee.Preference),
		Data: map[string]interface{}{
			"name":       employee.Name,
			"email":      employee.Email,
			"position":   employee.Position,
			"department": employee.Department,
			"preference": employee.Preference,
		},
	}, nil
}
