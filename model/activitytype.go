package model

// ActivityType is a team-scoped lookup value offered for Entry.ActivityType.
type ActivityType struct {
	Id           int32  `gorm:"primaryKey;autoIncrement;column:Id" json:"Id"`
	ActivityName string `gorm:"column:ActivityName;type:varchar(50);not null" json:"ActivityName"`
	Team         string `gorm:"column:Team;type:varchar(20);index" json:"-"`
	IsActive     bool   `gorm:"column:IsActive;not null" json:"-"`
}

func (ActivityType) TableName() string {
	return "ActivityTypes"
}

// All lists the models managed by migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Timesheet{},
		&ActivityType{},
	}
}
