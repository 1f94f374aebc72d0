package access

import (
	"fmt"
	"strings"

	"github.com/seclens/auditgate/internal/model"
	appErr "github.com/seclens/auditgate/internal/pkg/errors"
)

// Role is asserted by the caller per request; authentication is handled
// upstream, this package only decides what each role may retrieve.
type Role string

const (
	RoleJunior  Role = "Junior Auditor"
	RoleManager Role = "Manager"
	RoleAdmin   Role = "Admin"
)

func ParseRole(s string) (Role, error) {
	switch strings.TrimSpace(s) {
	case string(RoleJunior):
		return RoleJunior, nil
	case string(RoleManager):
		return RoleManager, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: %s", appErr.ErrUnknownRole, s)
}

// PermittedLabels maps a role to the sensitivity labels it may retrieve.
// The sets are nested: Junior < Manager < Admin.
func PermittedLabels(role Role) ([]model.Sensitivity, error) {
	switch role {
	case RoleJunior:
		return []model.Sensitivity{model.SensitivityLow}, nil
	case RoleManager:
		return []model.Sensitivity{model.SensitivityLow, model.SensitivityMedium}, nil
	case RoleAdmin:
		return []model.Sensitivity{model.SensitivityLow, model.SensitivityMedium, model.SensitivityHigh}, nil
	}
	return nil, fmt.Errorf("%w: %s", appErr.ErrUnknownRole, role)
}
