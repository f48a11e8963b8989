package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"
	"itsheet.com/itsheet/core"
	"itsheet.com/itsheet/core/users"
	"itsheet.com/itsheet/infrastructure/devops"
	"itsheet.com/itsheet/model"
)

func main() {
	username := flag.String("admin", "admin", "bootstrap admin username")
	team := flag.String("team", DefaultTeam, "team of the bootstrap admin and default activity types")
	flag.Parse()

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatalf("[ERROR] ADMIN_PASSWORD is required")
	}

	ctx := context.Background()
	cfg, err := devops.Load(ctx)
	if err != nil {
		log.Fatalf("[ERROR] failed to load configuration: %v", err)
	}

	dm, err := core.New(cfg.DSN, cfg.MaxConnections)
	if err != nil {
		log.Fatalf("[ERROR] failed to connect to database: %v", err)
	}
	defer dm.Close()

	if err := Seed(ctx, dm, *username, password, *team); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	log.Printf("[INFO] seed completed")
}

const DefaultTeam = "IT-Internal"

var DefaultActivityTypes = []string{"BRNET", "GLOW", "TruCell", "TracOD"}

// Seed migrates the schema, creates the admin unless the username is
// taken, and adds any missing default activity types. It is safe to run
// more than once.
func Seed(ctx context.Context, dm *core.DatabaseManager, username, password, team string) error {
	if err := dm.Migrate(ctx); err != nil {
		return err
	}

	directory := users.NewDirectory(dm)
	_, err := directory.Create(ctx, users.CreateUserInput{
		Username: username,
		Password: password,
		Team:     team,
		Role:     model.RoleAdmin,
	})
	switch {
	case errors.Is(err, users.ErrUsernameTaken):
		log.Printf("[INFO] admin %s already exists", username)
	case err != nil:
		return err
	default:
		log.Printf("[INFO] created admin %s", username)
	}

	for _, name := range DefaultActivityTypes {
		err := dm.Transaction(ctx, func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&model.ActivityType{}).
				Where("ActivityName = ? AND Team = ?", name, team).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
			log.Printf("[INFO] creating activity type %s for %s", name, team)
			return tx.Create(&model.ActivityType{ActivityName: name, Team: team, IsActive: true}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to seed activity type %s: %w", name, err)
		}
	}
	return nil
}
