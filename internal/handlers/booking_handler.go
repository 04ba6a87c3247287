package handlers

import (
	"net/http"
	"time"

	"github.com/dentaheal/booking-api/internal/middleware"
	"github.com/dentaheal/booking-api/internal/models"
	"github.com/dentaheal/booking-api/internal/services"
	"github.com/dentaheal/booking-api/internal/store"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListBookings serves both /bookings and the nested
// /dentists/:dentistId/bookings route. The policy scope always applies
// first; only admins can widen or narrow by dentist.
func (h *Handler) ListBookings(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	requestedDentist := primitive.NilObjectID
	// the nested /dentists/:id/bookings route carries the dentist in "id"
	if hex := c.Param("id"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			badRequest(c, "Invalid dentist id")
			return
		}
		requestedDentist = id
	} else if hex := c.Query("dentistId"); hex != "" {
		if id, err := primitive.ObjectIDFromHex(hex); err == nil {
			requestedDentist = id
		}
	}

	q := store.ParseListQuery(c.Request.URL.Query())
	// dentistId is handled through the policy scope, never as a raw filter
	delete(q.Filter, "dentistId")

	bookings, total, err := h.Bookings.List(c.Request.Context(), actor, requestedDentist, q)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respondList(c, len(bookings), q.Paginate(total), bookings)
}

type createBookingRequest struct {
	DentistID       string `json:"dentistId"`
	BookingDate     string `json:"bookingDate" binding:"required"`
	TreatmentDetail string `json:"treatmentDetail"`
}

// CreateBooking books a slot. On the nested route the dentist comes from
// the path; on /bookings it comes from the body.
func (h *Handler) CreateBooking(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	dentistHex := c.Param("id") // nested route; falls back to the body on /bookings
	if dentistHex == "" {
		dentistHex = req.DentistID
	}
	dentistID, err := primitive.ObjectIDFromHex(dentistHex)
	if err != nil {
		badRequest(c, "Invalid dentistId")
		return
	}

	bookingDate, err := time.Parse(time.RFC3339, req.BookingDate)
	if err != nil {
		badRequest(c, "Invalid bookingDate, use RFC3339")
		return
	}

	booking, err := h.Bookings.Create(c.Request.Context(), actor, dentistID, services.CreateBookingInput{
		BookingDate:     bookingDate,
		TreatmentDetail: req.TreatmentDetail,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, booking)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	booking, err := h.Bookings.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, booking)
}

// GetBookingConfirmation is the public view behind the emailed link. It
// deliberately exposes only date, status and dentist name.
func (h *Handler) GetBookingConfirmation(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	view, err := h.Bookings.GetConfirmation(c.Request.Context(), id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, view)
}

type updateBookingRequest struct {
	BookingDate     *string `json:"bookingDate"`
	Status          *string `json:"status"`
	TreatmentDetail *string `json:"treatmentDetail"`
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	in := services.UpdateBookingInput{TreatmentDetail: req.TreatmentDetail}
	if req.BookingDate != nil {
		t, err := time.Parse(time.RFC3339, *req.BookingDate)
		if err != nil {
			badRequest(c, "Invalid bookingDate, use RFC3339")
			return
		}
		in.BookingDate = &t
	}
	if req.Status != nil {
		status := models.BookingStatus(*req.Status)
		in.Status = &status
	}

	booking, err := h.Bookings.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, booking)
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	if err := h.Bookings.Delete(c.Request.Context(), actor, id); err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

// ConfirmBooking is public; the emailed link is the gate.
func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	booking, err := h.Bookings.Confirm(c.Request.Context(), id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, booking)
}

func (h *Handler) PatientHistory(c *gin.Context) {
	patientID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	history, err := h.Bookings.PatientHistory(c.Request.Context(), actor, patientID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	count := len(history)
	c.JSON(http.StatusOK, envelope{Success: true, Count: &count, Data: history})
}
