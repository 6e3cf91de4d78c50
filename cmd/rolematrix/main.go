package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/cinevault/admin-api/internal/config"
	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/domain/roles"
	"github.com/cinevault/admin-api/internal/pkg/database"
	"github.com/cinevault/admin-api/internal/pkg/logger"
)

func main() {
	format := flag.String("format", "table", "output format: table, csv or json")
	withOverrides := flag.Bool("overrides", false, "apply role overrides stored in the database")
	flag.Parse()

	cfg := config.Load()
	closer, err := logger.Init(logger.Config{Level: "warn", Environment: cfg.Env})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise logger")
	}

	err = run(cfg, *format, *withOverrides)
	closer.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render role matrix")
	}
}

// run keeps deferred cleanup inside a function that returns, since
// log.Fatal exits without running defers.
func run(cfg *config.Config, format string, withOverrides bool) error {
	registry := rbac.Default()
	if withOverrides {
		db, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		defer database.ClosePostgres(db)
		registry = roles.LoadRegistry(context.Background(), roles.NewRepository(db), registry, true)
	}
	return render(os.Stdout, registry, format)
}

func render(w io.Writer, reg *rbac.Registry, format string) error {
	m := buildMatrix(reg)
	switch format {
	case "table":
		return writeTable(w, m)
	case "csv":
		return writeCSV(w, m)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m.grants)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

type matrix struct {
	reg    *rbac.Registry
	roles  []rbac.Role
	perms  []rbac.Permission
	grants map[rbac.Role][]rbac.Permission
}

func buildMatrix(reg *rbac.Registry) matrix {
	m := matrix{
		reg:    reg,
		roles:  reg.Roles(),
		perms:  rbac.AllPermissions(),
		grants: make(map[rbac.Role][]rbac.Permission),
	}
	for _, role := range m.roles {
		m.grants[role] = reg.RolePermissions(role)
	}
	return m
}

func (m matrix) has(role rbac.Role, p rbac.Permission) bool {
	return m.reg.HasPermission(role, p)
}

func writeTable(w io.Writer, m matrix) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprint(tw, "permission")
	for _, role := range m.roles {
		fmt.Fprintf(tw, "\t%s", role)
	}
	fmt.Fprintln(tw)
	for _, p := range m.perms {
		fmt.Fprint(tw, p)
		for _, role := range m.roles {
			mark := "."
			if m.has(role, p) {
				mark = "x"
			}
			fmt.Fprintf(tw, "\t%s", mark)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, m matrix) error {
	cw := csv.NewWriter(w)
	header := []string{"permission"}
	for _, role := range m.roles {
		header = append(header, string(role))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range m.perms {
		row := []string{string(p)}
		for _, role := range m.roles {
			if m.has(role, p) {
				row = append(row, "1")
			} else {
				row = append(row, "0")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
