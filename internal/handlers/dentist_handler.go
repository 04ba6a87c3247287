package handlers

import (
	"net/http"

	"github.com/dentaheal/booking-api/internal/middleware"
	"github.com/dentaheal/booking-api/internal/models"
	"github.com/dentaheal/booking-api/internal/services"
	"github.com/dentaheal/booking-api/internal/store"
	"github.com/gin-gonic/gin"
)

// ListDentists is public and supports the filter/select/sort/page/limit
// query grammar, e.g. ?startingPrice[lte]=1500&sort=-startingPrice&page=2.
func (h *Handler) ListDentists(c *gin.Context) {
	q := store.ParseListQuery(c.Request.URL.Query())
	dentists, total, err := h.Dentists.List(c.Request.Context(), q)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respondList(c, len(dentists), q.Paginate(total), dentists)
}

func (h *Handler) GetDentist(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	dentist, err := h.Dentists.Get(c.Request.Context(), id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, dentist)
}

type dentistRequest struct {
	Name             *string                   `json:"name"`
	YearsExperience  *int                      `json:"yearsExperience"`
	AreasOfExpertise []string                  `json:"areasOfExpertise"`
	PictureURL       *string                   `json:"pictureUrl"`
	StartingPrice    *float64                  `json:"startingPrice"`
	Availability     []models.AvailabilityDate `json:"availability"`
}

func (h *Handler) CreateDentist(c *gin.Context) {
	var req dentistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	in := services.CreateDentistInput{
		AreasOfExpertise: req.AreasOfExpertise,
		Availability:     req.Availability,
	}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.YearsExperience != nil {
		in.YearsExperience = *req.YearsExperience
	}
	if req.PictureURL != nil {
		in.PictureURL = *req.PictureURL
	}
	if req.StartingPrice != nil {
		in.StartingPrice = *req.StartingPrice
	}

	dentist, err := h.Dentists.Create(c.Request.Context(), in)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, dentist)
}

func (h *Handler) UpdateDentist(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req dentistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.CurrentActor(c)

	dentist, err := h.Dentists.Update(c.Request.Context(), actor, id, services.UpdateDentistInput{
		Name:             req.Name,
		YearsExperience:  req.YearsExperience,
		AreasOfExpertise: req.AreasOfExpertise,
		PictureURL:       req.PictureURL,
		StartingPrice:    req.StartingPrice,
		Availability:     req.Availability,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, dentist)
}

func (h *Handler) DeleteDentist(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.Dentists.Delete(c.Request.Context(), id); err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

type expertiseRequest struct {
	Area string `json:"area" binding:"required"`
}

func (h *Handler) AddExpertise(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req expertiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.CurrentActor(c)

	dentist, err := h.Dentists.AddExpertise(c.Request.Context(), actor, id, req.Area)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, dentist)
}

func (h *Handler) RemoveExpertise(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req expertiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.CurrentActor(c)

	dentist, err := h.Dentists.RemoveExpertise(c.Request.Context(), actor, id, req.Area)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, dentist)
}

// GetReviews is public: a dentist's ratings plus the derived average. The
// average is omitted entirely when no ratings exist.
func (h *Handler) GetReviews(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	view, err := h.Dentists.Reviews(c.Request.Context(), id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, view)
}

type reviewRequest struct {
	Score      int    `json:"score" binding:"required"`
	ReviewText string `json:"reviewText"`
}

func (h *Handler) UpsertReview(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.CurrentActor(c)

	view, err := h.Dentists.UpsertReview(c.Request.Context(), actor, id, req.Score, req.ReviewText)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, view)
}

func (h *Handler) RemoveReview(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	view, err := h.Dentists.RemoveReview(c.Request.Context(), actor, id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, view)
}

// GetAvailability is public: declared slots minus active bookings, plus the
// dates already carrying bookings.
func (h *Handler) GetAvailability(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	view, err := h.Dentists.Availability(c.Request.Context(), id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, view)
}
