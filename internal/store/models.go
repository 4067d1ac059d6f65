package store

import "time"

// Driver identifies a fleet driver.
type Driver struct {
	DriverID  int    `gorm:"column:driver_id"`
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
}

// TableName returns the table name for SQLite sources.
func (Driver) TableName() string { return "drivers" }

// FullName joins first and last name, falling back to "Unknown Driver".
func (d Driver) FullName() string {
	name := d.FirstName
	if d.LastName != "" {
		if name != "" {
			name += " "
		}
		name += d.LastName
	}
	if name == "" {
		return "Unknown Driver"
	}
	return name
}

// Truck is a power unit in the fleet.
type Truck struct {
	TruckID        int     `gorm:"column:truck_id"`
	UnitNumber     string  `gorm:"column:unit_number"`
	ModelYear      int     `gorm:"column:model_year"`
	CurrentMileage float64 `gorm:"column:current_mileage"`
}

func (Truck) TableName() string { return "trucks" }

// Customer is a shipper the fleet hauls loads for.
type Customer struct {
	CustomerID int    `gorm:"column:customer_id"`
	Name       string `gorm:"column:name"`
}

func (Customer) TableName() string { return "customers" }

// Route is a recurring origin/destination lane.
type Route struct {
	RouteID              int     `gorm:"column:route_id"`
	OriginCity           string  `gorm:"column:origin_city"`
	DestinationCity      string  `gorm:"column:destination_city"`
	TypicalDistanceMiles float64 `gorm:"column:typical_distance_miles"`
}

func (Route) TableName() string { return "routes" }

// Load is a billed shipment.
type Load struct {
	LoadID             int       `gorm:"column:load_id"`
	CustomerID         int       `gorm:"column:customer_id"`
	Revenue            float64   `gorm:"column:revenue"`
	FuelSurcharge      float64   `gorm:"column:fuel_surcharge"`
	AccessorialCharges float64   `gorm:"column:accessorial_charges"`
	LoadDate           time.Time `gorm:"column:load_date"`
}

func (Load) TableName() string { return "loads" }

// Profit is revenue net of fuel surcharge and accessorial charges.
func (l Load) Profit() float64 {
	return l.Revenue - l.FuelSurcharge - l.AccessorialCharges
}

// Trip is the physical movement of a load by a driver and truck.
type Trip struct {
	TripID              int       `gorm:"column:trip_id"`
	LoadID              int       `gorm:"column:load_id"`
	TruckID             int       `gorm:"column:truck_id"`
	DriverID            int       `gorm:"column:driver_id"`
	RouteID             int       `gorm:"column:route_id"`
	DispatchDate        time.Time `gorm:"column:dispatch_date"`
	ActualDistanceMiles float64   `gorm:"column:actual_distance_miles"`
	IdleHours           float64   `gorm:"column:idle_hours"`
	AverageMPG          float64   `gorm:"column:average_mpg"`
}

func (Trip) TableName() string { return "trips" }

// DeliveryEvent records scheduled vs actual delivery for a load/trip pair.
type DeliveryEvent struct {
	EventID           int       `gorm:"column:event_id"`
	LoadID            int       `gorm:"column:load_id"`
	TripID            int       `gorm:"column:trip_id"`
	ScheduledDatetime time.Time `gorm:"column:scheduled_datetime"`
	ActualDatetime    time.Time `gorm:"column:actual_datetime"`
}

func (DeliveryEvent) TableName() string { return "delivery_events" }

// FuelPurchase is a single fuel transaction for a truck.
type FuelPurchase struct {
	PurchaseID     int       `gorm:"column:purchase_id"`
	TruckID        int       `gorm:"column:truck_id"`
	PurchaseDate   time.Time `gorm:"column:purchase_date"`
	Gallons        float64   `gorm:"column:gallons"`
	PricePerGallon float64   `gorm:"column:price_per_gallon"`
	TotalCost      float64   `gorm:"column:total_cost"`
}

func (FuelPurchase) TableName() string { return "fuel_purchases" }

// MaintenanceRecord is a shop event for a truck.
type MaintenanceRecord struct {
	RecordID        int       `gorm:"column:record_id"`
	TruckID         int       `gorm:"column:truck_id"`
	MaintenanceDate time.Time `gorm:"column:maintenance_date"`
	TotalCost       float64   `gorm:"column:total_cost"`
	DowntimeHours   float64   `gorm:"column:downtime_hours"`
}

func (MaintenanceRecord) TableName() string { return "maintenance_records" }

// SafetyIncident is a recorded safety event attributed to a driver.
type SafetyIncident struct {
	IncidentID   int       `gorm:"column:incident_id"`
	DriverID     int       `gorm:"column:driver_id"`
	IncidentDate time.Time `gorm:"column:incident_date"`
}

func (SafetyIncident) TableName() string { return "safety_incidents" }

// DriverMonthlyMetric holds per-driver aggregates for one calendar month.
type DriverMonthlyMetric struct {
	DriverID           int       `gorm:"column:driver_id"`
	Month              time.Time `gorm:"column:month"`
	TotalRevenue       float64   `gorm:"column:total_revenue"`
	AverageMPG         float64   `gorm:"column:average_mpg"`
	AverageIdleHours   float64   `gorm:"column:average_idle_hours"`
	OnTimeDeliveryRate float64   `gorm:"column:on_time_delivery_rate"`
}

func (DriverMonthlyMetric) TableName() string { return "driver_monthly_metrics" }

// TruckUtilizationMetric holds per-truck aggregates for one calendar month.
type TruckUtilizationMetric struct {
	TruckID         int       `gorm:"column:truck_id"`
	Month           time.Time `gorm:"column:month"`
	UtilizationRate float64   `gorm:"column:utilization_rate"`
	DowntimeHours   float64   `gorm:"column:downtime_hours"`
	AverageMPG      float64   `gorm:"column:average_mpg"`
}

func (TruckUtilizationMetric) TableName() string { return "truck_utilization_metrics" }
