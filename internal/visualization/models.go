package visualization

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visualization is the metadata of an image attached to an alarm. The bytes
// live in blob storage under Path.
type Visualization struct {
	ID         string    `json:"id"         gorm:"column:id;type:uuid;primaryKey"`
	Filename   string    `json:"filename"   gorm:"column:filename;not null"`
	Path       string    `json:"path"       gorm:"column:path;not null"`
	UploadedAt time.Time `json:"uploadedAt" gorm:"column:uploaded_at;not null"`
	AlarmID    string    `json:"alarmId"    gorm:"column:alarm_id;type:uuid;not null;index:idx_visualizations_alarm_id"`

	Alarm *VisualizationAlarm `json:"alarm,omitempty" gorm:"foreignKey:AlarmID"`
}

func (Visualization) TableName() string {
	return "visualizations"
}

func (v *Visualization) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.UploadedAt.IsZero() {
		v.UploadedAt = time.Now().UTC()
	}
	return nil
}

// VisualizationAlarm maps the alarms table locally so this package does not
// import alarm.
type VisualizationAlarm struct {
	ID        string    `json:"id"        gorm:"column:id;primaryKey"`
	Timestamp time.Time `json:"timestamp" gorm:"column:timestamp"`
	Type      string    `json:"type"      gorm:"column:type"`
	SensorID  string    `json:"sensorId"  gorm:"column:sensor_id"`
}

func (VisualizationAlarm) TableName() string {
	return "alarms"
}
