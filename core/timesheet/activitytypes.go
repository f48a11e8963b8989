package timesheet

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"itsheet.com/itsheet/core"
	"itsheet.com/itsheet/model"
)

// ActivityTypes lists the active activity types of a team, by name.
func ActivityTypes(ctx context.Context, dm *core.DatabaseManager, team string) ([]model.ActivityType, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return nil, ErrMissingTeam
	}

	types := []model.ActivityType{}
	err := dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("Team = ? AND IsActive = ?", team, true).
			Order("ActivityName").
			Find(&types).Error
	})
	return types, err
}
