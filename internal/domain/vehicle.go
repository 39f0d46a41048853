package domain

type VehicleType string

const (
	VehicleTruck VehicleType = "truck"
	VehicleVan   VehicleType = "van"
)

// Vehicle is fleet configuration loaded once per planning run.
//
// MaxLoad is carried for display only: stores have no payload weight, so it
// is never checked.
type Vehicle struct {
	ID           string
	Name         string
	Type         VehicleType
	MaxLoad      float64 // kg
	MaxDistance  float64 // round trip, km
	MaxWorkHours float64
	MaxStores    int
	Priority     int // higher is assigned first
}

func (v Vehicle) MaxWorkMinutes() float64 { return v.MaxWorkHours * 60 }
