package roles

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/cinevault/admin-api/internal/domain/rbac"
)

// LoadRegistry applies persisted overrides on top of base. Any failure to
// load or validate them is logged and base is returned unchanged, so a bad
// row never prevents startup.
func LoadRegistry(ctx context.Context, repo Repository, base *rbac.Registry, enabled bool) *rbac.Registry {
	if !enabled || repo == nil {
		return base
	}

	rows, err := repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load role overrides, using built-in role registry")
		return base
	}
	if len(rows) == 0 {
		return base
	}

	overrides, err := toOverrideMap(base, rows)
	if err == nil {
		var reg *rbac.Registry
		if reg, err = base.WithPermissions(overrides); err == nil {
			log.Info().Int("overrides", len(overrides)).Msg("Role permission overrides applied")
			return reg
		}
	}

	log.Error().Err(err).Msg("Invalid role overrides, using built-in role registry")
	return base
}

func toOverrideMap(base *rbac.Registry, rows []*Override) (map[rbac.Role][]rbac.Permission, error) {
	out := make(map[rbac.Role][]rbac.Permission, len(rows))
	for _, row := range rows {
		role, err := base.ParseRole(row.Role)
		if err != nil {
			return nil, err
		}
		perms, err := parsePermissions(row.Permissions)
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", role, err)
		}
		out[role] = perms
	}
	return out, nil
}

func parsePermissions(raw []string) ([]rbac.Permission, error) {
	perms := make([]rbac.Permission, 0, len(raw))
	for _, s := range raw {
		p, err := rbac.ParsePermission(s)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, nil
}
