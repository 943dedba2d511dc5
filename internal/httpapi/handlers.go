package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Leganyst/parking-platform/internal/access"
	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/parking"
	"github.com/Leganyst/parking-platform/internal/service"
)

type Handler struct {
	serviceName string
	parking     *service.ParkingService
	reports     *service.ReportService
}

func NewHandler(serviceName string, ps *service.ParkingService, rs *service.ReportService) *Handler {
	return &Handler{serviceName: serviceName, parking: ps, reports: rs}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": h.serviceName,
		"meta":    extractMeta(r.Context()),
	})
}

func (h *Handler) Park(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ParkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in := service.ParkRequest{
		LicensePlate: req.LicensePlate,
		VehicleType:  req.VehicleType,
		OwnerName:    req.OwnerName,
		PhoneNumber:  req.PhoneNumber,
		LocationID:   req.LocationID,
	}
	// владелец берётся из тела, иначе из представившегося пользователя
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			WriteError(ctx, w, http.StatusBadRequest, "userId must be a UUID")
			return
		}
		in.UserID = &id
	} else if p := access.FromContext(ctx); !p.IsAnonymous() {
		id := p.UserID
		in.UserID = &id
	}

	res, err := h.parking.Park(ctx, in)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, "Vehicle parked successfully", ParkResponse{
		BookingNumber: res.BookingNumber,
		SlotNumber:    res.SlotNumber,
		SizeClass:     string(res.SizeClass),
		Fallback:      res.FellBack,
		EntryTime:     res.EntryTime,
		HourlyRate:    res.HourlyRate,
	})
}

func (h *Handler) Exit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ExitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	closed, err := h.parking.Exit(ctx, req.LicensePlate)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	WriteSuccess(ctx, w, "Vehicle exited successfully", exitResponse(closed))
}

func (h *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	closed, err := h.parking.CloseBooking(ctx, chi.URLParam(r, "bookingNumber"))
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	WriteSuccess(ctx, w, "Booking completed", exitResponse(closed))
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.parking.Status(ctx, r.URL.Query().Get("licensePlate"))
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	resp := StatusResponse{
		Vehicle: VehicleView{
			LicensePlate: st.Vehicle.LicensePlate,
			VehicleType:  st.Vehicle.VehicleType,
			OwnerName:    st.Vehicle.OwnerName,
			PhoneNumber:  st.Vehicle.PhoneNumber,
		},
		IsParked:   st.IsParked,
		SlotNumber: st.SlotNumber,
	}
	if st.Booking != nil {
		bv := bookingView(*st.Booking)
		bv.SlotNumber = st.SlotNumber
		bv.LicensePlate = st.Vehicle.LicensePlate
		resp.Booking = &bv
	}
	WriteSuccess(ctx, w, "", resp)
}

func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	locationID, err := strconv.ParseInt(q.Get("locationId"), 10, 64)
	if err != nil || locationID <= 0 {
		WriteError(ctx, w, http.StatusBadRequest, "locationId must be a positive integer")
		return
	}
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	slots, err := h.parking.SlotMap(ctx, locationID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	views := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, SlotView{
			ID:        s.ID.String(),
			Label:     s.Label,
			Floor:     s.Floor,
			SizeClass: string(s.SizeClass),
			Occupied:  s.Occupied,
			Available: s.Available,
		})
	}

	p := parking.Paginate(views, page, pageSize)
	WriteSuccess(ctx, w, "", SlotPage{
		Items:      p.Items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
	})
}

func (h *Handler) BookingEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	events, err := h.parking.BookingEvents(ctx, chi.URLParam(r, "bookingNumber"))
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, EventView{
			Type:      string(e.EventType),
			CreatedAt: e.CreatedAt,
			Details:   json.RawMessage(e.Details),
		})
	}
	WriteSuccess(ctx, w, "", views)
}

func (h *Handler) UsageReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	zone := h.reports.Location()

	from, err := parking.ParseDate(q.Get("from"), zone)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	to, err := parking.ParseDate(q.Get("to"), zone)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	rep, err := h.reports.Usage(ctx, from, to)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, "", UsageResponse{
		From:            rep.From.Format(parking.DateLayout),
		To:              rep.To.Format(parking.DateLayout),
		TotalBookings:   rep.TotalBookings,
		AverageDuration: rep.AverageDurationHours,
		PeakHour:        rep.PeakHour,
		TotalRevenue:    rep.TotalRevenue,
	})
}

func (h *Handler) LocationReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locationID, err := strconv.ParseInt(chi.URLParam(r, "locationID"), 10, 64)
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "location id must be an integer")
		return
	}

	rep, err := h.reports.ByLocation(ctx, locationID)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	active := make([]BookingView, 0, len(rep.ActiveBookings))
	for _, b := range rep.ActiveBookings {
		bv := bookingView(b)
		if b.Vehicle != nil {
			bv.LicensePlate = b.Vehicle.LicensePlate
		}
		if b.Slot != nil {
			bv.SlotNumber = b.Slot.Label
		}
		active = append(active, bv)
	}

	WriteSuccess(ctx, w, "", LocationReportResponse{
		LocationID:          rep.LocationID,
		LocationName:        rep.LocationName,
		TotalSlots:          rep.TotalSlots,
		AvailableSlots:      rep.AvailableSlots,
		OccupiedSlots:       rep.OccupiedSlots,
		ActiveBookings:      active,
		TotalActiveBookings: rep.TotalActiveBookings,
		TotalRevenue:        rep.TotalRevenue,
	})
}

func exitResponse(c *service.ClosedBooking) ExitResponse {
	return ExitResponse{
		BookingNumber: c.BookingNumber,
		SlotNumber:    c.SlotNumber,
		EntryTime:     c.EntryTime,
		ExitTime:      c.ExitTime,
		DurationHours: c.DurationHours,
		TotalAmount:   c.TotalAmount,
	}
}

func bookingView(b model.Booking) BookingView {
	return BookingView{
		BookingNumber: b.BookingNumber,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		EntryTime:     b.EntryTime,
		ExitTime:      b.ExitTime,
		HourlyRate:    b.HourlyRate,
		TotalAmount:   b.TotalAmount,
	}
}
