package sensor

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sensor is a named, located source of alarms.
type Sensor struct {
	ID       string `json:"id"       gorm:"column:id;type:uuid;primaryKey"`
	Name     string `json:"name"     gorm:"column:name;not null"`
	Location string `json:"location" gorm:"column:location;not null"`
	// Alarms is only populated when a read asks for it.
	Alarms []SensorAlarm `json:"alarms" gorm:"foreignKey:SensorID"`
}

func (Sensor) TableName() string {
	return "sensors"
}

func (s *Sensor) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SensorAlarm is an alarm row as seen from its sensor. It maps the alarms table
// locally so this package does not import alarm.
type SensorAlarm struct {
	ID        string    `json:"id"        gorm:"column:id;primaryKey"`
	Timestamp time.Time `json:"timestamp" gorm:"column:timestamp"`
	Type      string    `json:"type"      gorm:"column:type"`
	SensorID  string    `json:"-"         gorm:"column:sensor_id"`
}

func (SensorAlarm) TableName() string {
	return "alarms"
}
