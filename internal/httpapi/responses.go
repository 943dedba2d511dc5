package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type ParkRequest struct {
	LicensePlate string `json:"licensePlate"`
	VehicleType  string `json:"vehicleType"`
	OwnerName    string `json:"ownerName"`
	PhoneNumber  string `json:"phoneNumber"`
	LocationID   int64  `json:"locationId"`
	UserID       string `json:"userId,omitempty"`
}

type ExitRequest struct {
	LicensePlate string `json:"licensePlate"`
}

type ParkResponse struct {
	BookingNumber string    `json:"bookingNumber"`
	SlotNumber    string    `json:"slotNumber"`
	SizeClass     string    `json:"sizeClass"`
	Fallback      bool      `json:"fallback"`
	EntryTime     time.Time `json:"entryTime"`
	HourlyRate    float64   `json:"hourlyRate"`
}

type ExitResponse struct {
	BookingNumber string    `json:"bookingNumber"`
	SlotNumber    string    `json:"slotNumber"`
	EntryTime     time.Time `json:"entryTime"`
	ExitTime      time.Time `json:"exitTime"`
	DurationHours int64     `json:"durationHours"`
	TotalAmount   float64   `json:"totalAmount"`
}

type VehicleView struct {
	LicensePlate string `json:"licensePlate"`
	VehicleType  string `json:"vehicleType"`
	OwnerName    string `json:"ownerName,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

type BookingView struct {
	BookingNumber string     `json:"bookingNumber"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	LicensePlate  string     `json:"licensePlate,omitempty"`
	SlotNumber    string     `json:"slotNumber,omitempty"`
	EntryTime     time.Time  `json:"entryTime"`
	ExitTime      *time.Time `json:"exitTime,omitempty"`
	HourlyRate    float64    `json:"hourlyRate"`
	TotalAmount   *float64   `json:"totalAmount,omitempty"`
}

type StatusResponse struct {
	Vehicle    VehicleView  `json:"vehicle"`
	IsParked   bool         `json:"isParked"`
	Booking    *BookingView `json:"booking,omitempty"`
	SlotNumber string       `json:"slotNumber,omitempty"`
}

type SlotView struct {
	ID        string `json:"id"`
	Label     string `json:"slotNumber"`
	Floor     int    `json:"floor"`
	SizeClass string `json:"sizeClass"`
	Occupied  bool   `json:"occupied"`
	Available bool   `json:"available"`
}

type SlotPage struct {
	Items      []SlotView `json:"items"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	Total      int        `json:"total"`
	TotalPages int        `json:"totalPages"`
	HasNext    bool       `json:"hasNext"`
	HasPrev    bool       `json:"hasPrev"`
}

type EventView struct {
	Type      string          `json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
	Details   json.RawMessage `json:"details,omitempty"`
}

type UsageResponse struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	TotalBookings   int     `json:"totalBookings"`
	AverageDuration float64 `json:"averageDuration"`
	PeakHour        int     `json:"peakHour"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

type LocationReportResponse struct {
	LocationID          int64         `json:"locationId"`
	LocationName        string        `json:"locationName"`
	TotalSlots          int64         `json:"totalSlots"`
	AvailableSlots      int64         `json:"availableSlots"`
	OccupiedSlots       int64         `json:"occupiedSlots"`
	ActiveBookings      []BookingView `json:"activeBookings"`
	TotalActiveBookings int           `json:"totalActiveBookings"`
	TotalRevenue        float64       `json:"totalRevenue"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		meta.RequestID = reqID
	}

	return meta
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}
