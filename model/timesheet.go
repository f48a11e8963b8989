package model

import "time"

const (
	JobTypePlanned   = "Planned"
	JobTypeUnplanned = "Unplanned"
)

// Timesheet is one persisted row of logged work. Rows are append-only:
// nothing in the application updates or deletes them.
type Timesheet struct {
	ID                int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username          string    `gorm:"column:username;type:varchar(50);not null;index"`
	Team              string    `gorm:"column:team;type:varchar(20)"`
	Date              time.Time `gorm:"column:date;type:date;not null;index"`
	ProjectName       string    `gorm:"column:projectName;type:varchar(100);not null"`
	ActivityType      string    `gorm:"column:activityType;type:varchar(50);not null"`
	ActivityPerformed string    `gorm:"column:activityPerformed;type:varchar(500);not null"`
	JobType           string    `gorm:"column:jobType;type:varchar(20);not null"`
	HoursSpent        float64   `gorm:"column:hoursSpent;type:decimal(5,2);not null"`
}

func (Timesheet) TableName() string {
	return "Timesheets"
}
