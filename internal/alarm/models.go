package alarm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type is the kind of event a sensor raised.
type Type string

const (
	TypeMotion      Type = "motion"
	TypeSmoke       Type = "smoke"
	TypeTemperature Type = "temperature"
	TypeSound       Type = "sound"
	TypeIntrusion   Type = "intrusion"
)

var validTypes = map[Type]struct{}{
	TypeMotion:      {},
	TypeSmoke:       {},
	TypeTemperature: {},
	TypeSound:       {},
	TypeIntrusion:   {},
}

func (t Type) Valid() bool {
	_, ok := validTypes[t]
	return ok
}

type Alarm struct {
	ID        string    `json:"id"        gorm:"column:id;type:uuid;primaryKey"`
	Timestamp time.Time `json:"timestamp" gorm:"column:timestamp;not null;index:idx_alarms_timestamp"`
	Type      Type      `json:"type"      gorm:"column:type;not null;index:idx_alarms_type"`
	SensorID  string    `json:"sensorId"  gorm:"column:sensor_id;type:uuid;not null;index:idx_alarms_sensor_id"`

	// relations, loaded on request
	Sensor         *AlarmSensor         `json:"sensor,omitempty" gorm:"foreignKey:SensorID"`
	Visualizations []AlarmVisualization `json:"visualizations"   gorm:"foreignKey:AlarmID"`
}

func (Alarm) TableName() string {
	return "alarms"
}

func (a *Alarm) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return nil
}

// AlarmSensor maps the sensors table locally so alarm does not import sensor.
type AlarmSensor struct {
	ID       string `json:"id"       gorm:"column:id;primaryKey"`
	Name     string `json:"name"     gorm:"column:name"`
	Location string `json:"location" gorm:"column:location"`
}

func (AlarmSensor) TableName() string {
	return "sensors"
}

// AlarmVisualization is the visualization metadata shown on an alarm.
type AlarmVisualization struct {
	ID         string    `json:"id"         gorm:"column:id;primaryKey"`
	Filename   string    `json:"filename"   gorm:"column:filename"`
	Path       string    `json:"path"       gorm:"column:path"`
	UploadedAt time.Time `json:"uploadedAt" gorm:"column:uploaded_at"`
	AlarmID    string    `json:"-"          gorm:"column:alarm_id"`
}

func (AlarmVisualization) TableName() string {
	return "visualizations"
}
