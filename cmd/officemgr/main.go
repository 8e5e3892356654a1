// officemgr is the office manager: a meeting coordination assistant
// that books mirrored meetings between employees through an external
// Cal.com-compatible booking service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/npash/officemgr/pkg/config"
	"github.com/npash/officemgr/pkg/database"
	"github.com/npash/officemgr/pkg/directory"
	"github.com/npash/officemgr/pkg/httpbridge"
	"github.com/npash/officemgr/pkg/mcp"
	"github.com/npash/officemgr/pkg/repl"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "officemgr",
		Short: "Meeting coordination assistant",
		Long: `Office manager schedules meetings between employees through an
external Cal.com-compatible booking service.

Meetings are booked in both participants' calendars. The assistant can
also report free slots and answer questions about the employee directory.`,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: .officemgr.json)")

	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(mcpCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	return config.LoadDefault()
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat with the meeting assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := httpbridge.NewAppContext(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			r, err := repl.New(app.Agent, app.Sessions)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			return r.Run(ctx)
		},
	}
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long:  "Exposes the directory and scheduling tools to MCP clients over stdin/stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := httpbridge.NewAppContext(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			server := mcp.NewServer()
			for _, t := range app.Tools {
				server.RegisterTool(t)
			}

			ctx, cancel := signalContext()
			defer cancel()
			return server.Run(ctx)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  "Serves the directory API, websocket chat, health and metrics endpoints.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := httpbridge.NewAppContext(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, cancel := signalContext()
			defer cancel()
			return httpbridge.NewServer(app).Start(ctx)
		},
	}
}

func seedCmd() *cobra.Command {
	var rosterFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the employee directory from a roster file",
		Long: `Loads employees from a YAML roster into the directory. Seeding only
happens when the directory is empty; an already-populated directory is
left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			roster, err := directory.LoadRoster(rosterFile)
			if err != nil {
				return err
			}

			db, err := database.New(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := signalContext()
			defer cancel()

			if err := db.Migrate(ctx); err != nil {
				return err
			}

			n, err := directory.Seed(ctx, db.DB, roster)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Println("Directory already has employees, nothing seeded")
			} else {
				fmt.Printf("Seeded %d employees\n", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rosterFile, "roster", "r", "roster.yaml", "Path to the roster YAML file")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.New(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := signalContext()
			defer cancel()

			if err := db.Migrate(ctx); err != nil {
				return err
			}
			fmt.Println("Migrations applied")
			return nil
		},
	}
}
