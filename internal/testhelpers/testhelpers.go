// Package testhelpers provides reusable testing utilities for FleetSmart.
//
// This package contains:
// - HTTP test helpers (creating test requests, running handlers)
// - Fixture store builders (a small fleet dataset with known numbers)
// - Assertion helpers
package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fleetsmart/fleetsmart/internal/fleetview"
	"github.com/fleetsmart/fleetsmart/internal/store"
)

// ========================================
// HTTP Test Helpers
// ========================================

// HTTPTestContext holds components for HTTP handler testing
type HTTPTestContext struct {
	T        *testing.T
	Recorder *httptest.ResponseRecorder
	Request  *http.Request
}

// NewHTTPTestContext creates a new HTTP test context
func NewHTTPTestContext(t *testing.T, method, path string, body io.Reader) *HTTPTestContext {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	return &HTTPTestContext{
		T:        t,
		Recorder: httptest.NewRecorder(),
		Request:  req,
	}
}

// WithJSONBody sets JSON body on the request
func (ctx *HTTPTestContext) WithJSONBody(v interface{}) *HTTPTestContext {
	ctx.T.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		ctx.T.Fatalf("failed to marshal JSON body: %v", err)
	}
	ctx.Request = httptest.NewRequest(ctx.Request.Method, ctx.Request.URL.String(), bytes.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")
	return ctx
}

// Execute runs the handler and returns the response
func (ctx *HTTPTestContext) Execute(handler http.Handler) *HTTPTestContext {
	handler.ServeHTTP(ctx.Recorder, ctx.Request)
	return ctx
}

// ExecuteFunc runs the handler func and returns the response
func (ctx *HTTPTestContext) ExecuteFunc(handler http.HandlerFunc) *HTTPTestContext {
	handler(ctx.Recorder, ctx.Request)
	return ctx
}

// AssertStatus checks the response status code
func (ctx *HTTPTestContext) AssertStatus(expected int) *HTTPTestContext {
	ctx.T.Helper()
	if ctx.Recorder.Code != expected {
		ctx.T.Errorf("expected status %d, got %d. Body: %s", expected, ctx.Recorder.Code, ctx.Recorder.Body.String())
	}
	return ctx
}

// AssertBodyContains checks if response body contains substring
func (ctx *HTTPTestContext) AssertBodyContains(substr string) *HTTPTestContext {
	ctx.T.Helper()
	body := ctx.Recorder.Body.String()
	if !strings.Contains(body, substr) {
		ctx.T.Errorf("expected body to contain %q, got: %s", substr, body)
	}
	return ctx
}

// DecodeJSON decodes response body as JSON
func (ctx *HTTPTestContext) DecodeJSON(v interface{}) *HTTPTestContext {
	ctx.T.Helper()
	if err := json.NewDecoder(ctx.Recorder.Body).Decode(v); err != nil {
		ctx.T.Fatalf("failed to decode JSON response: %v", err)
	}
	return ctx
}

// ========================================
// Fixture Store
// ========================================

// Date builds a UTC timestamp for fixtures.
func Date(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// SampleStore builds a small fleet dataset with known numbers.
//
// Two drivers, two trucks, two routes, two customers. Four loads/trips across
// two months. Trip 1 is delivered exactly on the grace boundary, trip 2 is
// one minute late, trips 3 and 4 are early. Route 2 loses money on every
// load. Truck 2 is old and high mileage.
func SampleStore() *store.Store {
	return &store.Store{
		Drivers: []store.Driver{
			{DriverID: 1, FirstName: "Alice", LastName: "Nguyen"},
			{DriverID: 2, FirstName: "Bob", LastName: "Reyes"},
		},
		Trucks: []store.Truck{
			{TruckID: 1, UnitNumber: "T-100", ModelYear: 2022, CurrentMileage: 120000},
			{TruckID: 2, UnitNumber: "T-200", ModelYear: 2012, CurrentMileage: 610000},
		},
		Customers: []store.Customer{
			{CustomerID: 1, Name: "Acme Shipping"},
			{CustomerID: 2, Name: "Globex Freight"},
		},
		Routes: []store.Route{
			{RouteID: 1, OriginCity: "Dallas", DestinationCity: "Memphis", TypicalDistanceMiles: 450},
			{RouteID: 2, OriginCity: "Chicago", DestinationCity: "Denver", TypicalDistanceMiles: 1000},
		},
		Loads: []store.Load{
			{LoadID: 1, CustomerID: 1, Revenue: 1000, FuelSurcharge: 100, AccessorialCharges: 50, LoadDate: Date(2024, time.January, 5, 0, 0)},
			{LoadID: 2, CustomerID: 1, Revenue: 2000, FuelSurcharge: 200, AccessorialCharges: 100, LoadDate: Date(2024, time.January, 12, 0, 0)},
			{LoadID: 3, CustomerID: 2, Revenue: 500, FuelSurcharge: 400, AccessorialCharges: 300, LoadDate: Date(2024, time.February, 3, 0, 0)},
			{LoadID: 4, CustomerID: 2, Revenue: 600, FuelSurcharge: 500, AccessorialCharges: 250, LoadDate: Date(2024, time.February, 10, 0, 0)},
		},
		Trips: []store.Trip{
			{TripID: 1, LoadID: 1, TruckID: 1, DriverID: 1, RouteID: 1, DispatchDate: Date(2024, time.January, 5, 8, 0), ActualDistanceMiles: 450, IdleHours: 2, AverageMPG: 7.5},
			{TripID: 2, LoadID: 2, TruckID: 1, DriverID: 1, RouteID: 1, DispatchDate: Date(2024, time.January, 12, 8, 0), ActualDistanceMiles: 460, IdleHours: 3, AverageMPG: 7.0},
			{TripID: 3, LoadID: 3, TruckID: 2, DriverID: 2, RouteID: 2, DispatchDate: Date(2024, time.February, 3, 8, 0), ActualDistanceMiles: 1000, IdleHours: 9, AverageMPG: 5.5},
			{TripID: 4, LoadID: 4, TruckID: 2, DriverID: 2, RouteID: 2, DispatchDate: Date(2024, time.February, 10, 8, 0), ActualDistanceMiles: 990, IdleHours: 10, AverageMPG: 5.2},
		},
		DeliveryEvents: []store.DeliveryEvent{
			{EventID: 1, LoadID: 1, TripID: 1, ScheduledDatetime: Date(2024, time.January, 6, 12, 0), ActualDatetime: Date(2024, time.January, 6, 12, 30)},
			{EventID: 2, LoadID: 2, TripID: 2, ScheduledDatetime: Date(2024, time.January, 13, 12, 0), ActualDatetime: Date(2024, time.January, 13, 12, 31)},
			{EventID: 3, LoadID: 3, TripID: 3, ScheduledDatetime: Date(2024, time.February, 4, 12, 0), ActualDatetime: Date(2024, time.February, 4, 11, 0)},
			{EventID: 4, LoadID: 4, TripID: 4, ScheduledDatetime: Date(2024, time.February, 11, 12, 0), ActualDatetime: Date(2024, time.February, 11, 10, 0)},
		},
		FuelPurchases: []store.FuelPurchase{
			{PurchaseID: 1, TruckID: 1, PurchaseDate: Date(2024, time.January, 5, 0, 0), Gallons: 100, PricePerGallon: 4.0, TotalCost: 400},
			{PurchaseID: 2, TruckID: 2, PurchaseDate: Date(2024, time.February, 3, 0, 0), Gallons: 200, PricePerGallon: 4.5, TotalCost: 900},
		},
		MaintenanceRecords: []store.MaintenanceRecord{
			{RecordID: 1, TruckID: 2, MaintenanceDate: Date(2024, time.February, 15, 0, 0), TotalCost: 6000, DowntimeHours: 20},
		},
		SafetyIncidents: []store.SafetyIncident{
			{IncidentID: 1, DriverID: 2, IncidentDate: Date(2024, time.February, 8, 0, 0)},
		},
		DriverMonthly: []store.DriverMonthlyMetric{
			{DriverID: 1, Month: Date(2024, time.January, 1, 0, 0), TotalRevenue: 3000, AverageMPG: 7.2, AverageIdleHours: 2.5, OnTimeDeliveryRate: 1.0},
			{DriverID: 2, Month: Date(2024, time.February, 1, 0, 0), TotalRevenue: 1100, AverageMPG: 5.3, AverageIdleHours: 9.5, OnTimeDeliveryRate: 1.0},
		},
		TruckUtilization: []store.TruckUtilizationMetric{
			{TruckID: 1, Month: Date(2024, time.January, 1, 0, 0), UtilizationRate: 0.9, DowntimeHours: 4, AverageMPG: 7.2},
			{TruckID: 2, Month: Date(2024, time.February, 1, 0, 0), UtilizationRate: 0.6, DowntimeHours: 20, AverageMPG: 5.3},
		},
	}
}

// SampleView builds the fleet view over SampleStore.
func SampleView() *fleetview.View {
	return fleetview.New(SampleStore())
}

// ========================================
// Assertion Helpers
// ========================================

// AssertFloatEqual checks float equality within a small tolerance
func AssertFloatEqual(t *testing.T, expected, actual float64, msg string) {
	t.Helper()
	diff := expected - actual
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-9 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// AssertError checks that an error occurred
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected error, got nil", msg)
	}
}

// AssertNoError checks that no error occurred
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: unexpected error: %v", msg, err)
	}
}
