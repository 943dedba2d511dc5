package grpcapi

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Leganyst/parking-platform/internal/access"
	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/parking"
	"github.com/Leganyst/parking-platform/internal/service"
)

type ParkingServer struct {
	parking *service.ParkingService
	reports *service.ReportService
}

func NewParkingServer(ps *service.ParkingService, rs *service.ReportService) *ParkingServer {
	return &ParkingServer{parking: ps, reports: rs}
}

var _ ParkingServiceServer = (*ParkingServer)(nil)

// Park открывает бронь. Запрос: {licensePlate, vehicleType, ownerName, phoneNumber, locationId, userId?}.
func (s *ParkingServer) Park(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	locationID, err := int64Field(req, "locationId")
	if err != nil {
		return nil, err
	}

	in := service.ParkRequest{
		LicensePlate: stringField(req, "licensePlate"),
		VehicleType:  stringField(req, "vehicleType"),
		OwnerName:    stringField(req, "ownerName"),
		PhoneNumber:  stringField(req, "phoneNumber"),
		LocationID:   locationID,
	}
	if raw := stringField(req, "userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "userId must be a UUID")
		}
		in.UserID = &id
	} else if p := access.FromContext(ctx); !p.IsAnonymous() {
		id := p.UserID
		in.UserID = &id
	}

	res, err := s.parking.Park(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}

	return newStruct(map[string]any{
		"bookingNumber": res.BookingNumber,
		"slotNumber":    res.SlotNumber,
		"sizeClass":     string(res.SizeClass),
		"fallback":      res.FellBack,
		"entryTime":     formatTime(res.EntryTime),
		"hourlyRate":    res.HourlyRate,
	})
}

// Exit закрывает бронь по номеру машины. Запрос: {licensePlate}.
func (s *ParkingServer) Exit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	closed, err := s.parking.Exit(ctx, stringField(req, "licensePlate"))
	if err != nil {
		return nil, toStatus(err)
	}
	return closedStruct(closed)
}

// CompleteBooking закрывает бронь по её номеру. Запрос: {bookingNumber}.
func (s *ParkingServer) CompleteBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	closed, err := s.parking.CloseBooking(ctx, stringField(req, "bookingNumber"))
	if err != nil {
		return nil, toStatus(err)
	}
	return closedStruct(closed)
}

// Status отдаёт состояние машины. Запрос: {licensePlate}.
func (s *ParkingServer) Status(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	st, err := s.parking.Status(ctx, stringField(req, "licensePlate"))
	if err != nil {
		return nil, toStatus(err)
	}

	out := map[string]any{
		"vehicle": map[string]any{
			"licensePlate": st.Vehicle.LicensePlate,
			"vehicleType":  st.Vehicle.VehicleType,
			"ownerName":    st.Vehicle.OwnerName,
			"phoneNumber":  st.Vehicle.PhoneNumber,
		},
		"isParked": st.IsParked,
	}
	if st.Booking != nil {
		b := bookingMap(*st.Booking)
		b["slotNumber"] = st.SlotNumber
		out["booking"] = b
		out["slotNumber"] = st.SlotNumber
	}
	return newStruct(out)
}

// UsageReport доступен только администратору. Запрос: {from, to} в формате YYYY-MM-DD.
func (s *ParkingServer) UsageReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := access.RequireRole(access.FromContext(ctx), access.RoleAdmin); err != nil {
		return nil, toStatus(err)
	}

	zone := s.reports.Location()
	from, err := parking.ParseDate(stringField(req, "from"), zone)
	if err != nil {
		return nil, toStatus(err)
	}
	to, err := parking.ParseDate(stringField(req, "to"), zone)
	if err != nil {
		return nil, toStatus(err)
	}

	rep, err := s.reports.Usage(ctx, from, to)
	if err != nil {
		return nil, toStatus(err)
	}

	return newStruct(map[string]any{
		"from":            rep.From.Format(parking.DateLayout),
		"to":              rep.To.Format(parking.DateLayout),
		"totalBookings":   rep.TotalBookings,
		"averageDuration": rep.AverageDurationHours,
		"peakHour":        rep.PeakHour,
		"totalRevenue":    rep.TotalRevenue,
	})
}

// LocationReport доступен только администратору. Запрос: {locationId}.
func (s *ParkingServer) LocationReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := access.RequireRole(access.FromContext(ctx), access.RoleAdmin); err != nil {
		return nil, toStatus(err)
	}

	locationID, err := int64Field(req, "locationId")
	if err != nil {
		return nil, err
	}

	rep, err := s.reports.ByLocation(ctx, locationID)
	if err != nil {
		return nil, toStatus(err)
	}

	active := make([]any, 0, len(rep.ActiveBookings))
	for _, b := range rep.ActiveBookings {
		m := bookingMap(b)
		if b.Vehicle != nil {
			m["licensePlate"] = b.Vehicle.LicensePlate
		}
		if b.Slot != nil {
			m["slotNumber"] = b.Slot.Label
		}
		active = append(active, m)
	}

	return newStruct(map[string]any{
		"locationId":          rep.LocationID,
		"locationName":        rep.LocationName,
		"totalSlots":          rep.TotalSlots,
		"availableSlots":      rep.AvailableSlots,
		"occupiedSlots":       rep.OccupiedSlots,
		"activeBookings":      active,
		"totalActiveBookings": rep.TotalActiveBookings,
		"totalRevenue":        rep.TotalRevenue,
	})
}

func closedStruct(c *service.ClosedBooking) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		"bookingNumber": c.BookingNumber,
		"slotNumber":    c.SlotNumber,
		"entryTime":     formatTime(c.EntryTime),
		"exitTime":      formatTime(c.ExitTime),
		"durationHours": c.DurationHours,
		"totalAmount":   c.TotalAmount,
	})
}

func bookingMap(b model.Booking) map[string]any {
	m := map[string]any{
		"bookingNumber": b.BookingNumber,
		"status":        string(b.Status),
		"paymentStatus": string(b.PaymentStatus),
		"entryTime":     formatTime(b.EntryTime),
		"hourlyRate":    b.HourlyRate,
	}
	if b.ExitTime != nil {
		m["exitTime"] = formatTime(*b.ExitTime)
	}
	if b.TotalAmount != nil {
		m["totalAmount"] = *b.TotalAmount
	}
	return m
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return s, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

// int64Field принимает число или строку с числом.
func int64Field(s *structpb.Struct, key string) (int64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n != float64(int64(n)) {
			return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", key)
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(k.StringValue, 10, 64)
		if err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", key)
		}
		return n, nil
	default:
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", key)
	}
}
