package directory

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRoster(t *testing.T) {
	content := `employees:
  - name: "Alice Johnson"
    email: alice@demo.com
    position: 3
    department: AI
    preference: "No meetings after 15:00"
    cal_com_username: alice-johnson-x1
    cal_com_api_key: cal_live_aaa
  - name: "Bob Smith"
    email: bob@demo.com
    position: 2
    department: Sales
    preference: "Afternoons preferred"
    cal_com_username: bob-smith-y2
    cal_com_api_key: cal_live_bbb
`
	path := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	roster, err := LoadRoster(path)
	if err != nil {
		t.Fatalf("LoadRoster() error = %v", err)
	}
	if len(roster.Employees) != 2 {
		t.Fatalf("got %d employees, want 2", len(roster.Employees))
	}

	alice := roster.Employees[0]
	if alice.Name != "Alice Johnson" {
		t.Errorf("Name = %q", alice.Name)
	}
	if alice.CalUsername != "alice-johnson-x1" {
		t.Errorf("CalUsername = %q", alice.CalUsername)
	}
	if alice.CalAPIKey != "cal_live_aaa" {
		t.Errorf("CalAPIKey = %q", alice.CalAPIKey)
	}
}

func TestLoadRosterRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing name",
			content: "employees:\n  - email: x@demo.com\n    cal_com_api_key: k\n",
		},
		{
			name:    "missing api key",
			content: "employees:\n  - name: Alice\n    email: x@demo.com\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "roster.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadRoster(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
