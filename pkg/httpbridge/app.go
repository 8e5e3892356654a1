// Package httpbridge exposes the office manager over HTTP: directory
// read endpoints, a websocket chat frontend for the agent, health and
// Prometheus metrics.
package httpbridge

import (
	"context"
	"fmt"

	"github.com/npash/officemgr/pkg/agent"
	"github.com/npash/officemgr/pkg/calcom"
	"github.com/npash/officemgr/pkg/config"
	"github.com/npash/officemgr/pkg/database"
	"github.com/npash/officemgr/pkg/directory"
	"github.com/npash/officemgr/pkg/scheduler"
	"github.com/npash/officemgr/pkg/tools"
)

// AppContext holds all the shared dependencies for the HTTP server
type AppContext struct {
	Config    *config.Config
	Database  *database.DB
	Directory directory.Store
	Engine    *scheduler.Engine
	Agent     *agent.Agent
	Sessions  *agent.Sessions
	Tools     []tools.Tool
}

// NewAppContext creates and initializes the application context,
// connecting to the database and running migrations.
func NewAppContext(cfg *config.Config) (*AppContext, error) {
	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return NewAppContextWithDB(cfg, db)
}

// NewAppContextWithDB wires the application context around an existing
// database connection. Used by tests and by commands that manage the
// connection themselves.
func NewAppContextWithDB(cfg *config.Config, db *database.DB) (*AppContext, error) {
	store := directory.NewPostgresStore(db.DB)
	engine := scheduler.New(store, calcom.NewClient(cfg.Calendar.BaseURL), cfg.Calendar)

	toolset := []tools.Tool{
		tools.NewDepartmentsTool(store),
		tools.NewDepartmentEmployeesTool(store),
		tools.NewEmployeeInfoTool(store),
		tools.NewCreateMeetingTool(engine),
		tools.NewFreeSlotsTool(engine),
	}

	backend := agent.NewServerClient(cfg.Model)

	return &AppContext{
		Config:    cfg,
		Database:  db,
		Directory: store,
		Engine:    engine,
		Agent:     agent.New(backend, toolset),
		Sessions:  agent.NewSessions(),
		Tools:     toolset,
	}, nil
}

// Close releases the app's resources.
func (a *AppContext) Close() error {
	if a.Database != nil {
		return a.Database.Close()
	}
	return nil
}
