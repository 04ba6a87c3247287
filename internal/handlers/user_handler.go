package handlers

import (
	"net/http"

	"github.com/dentaheal/booking-api/internal/models"
	"github.com/dentaheal/booking-api/internal/store"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) ListUsers(c *gin.Context) {
	q := store.ParseListQuery(c.Request.URL.Query())
	users, total, err := h.Users.List(c.Request.Context(), q)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respondList(c, len(users), q.Paginate(total), users)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

type updateUserRoleRequest struct {
	Role      string `json:"role" binding:"required"`
	DentistID string `json:"dentistId"`
}

// UpdateUserRole lets an admin change a user's role. Assigning the dentist
// role links the account to the dentist profile it manages.
func (h *Handler) UpdateUserRole(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req updateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	dentistID := primitive.NilObjectID
	if req.DentistID != "" {
		var err error
		if dentistID, err = primitive.ObjectIDFromHex(req.DentistID); err != nil {
			badRequest(c, "Invalid dentistId")
			return
		}
	}

	user, err := h.Users.UpdateRole(c.Request.Context(), id, models.Role(req.Role), dentistID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}
