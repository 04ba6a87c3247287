package handlers

import (
	"net/http"

	"github.com/dentaheal/booking-api/internal/apperr"
	"github.com/dentaheal/booking-api/internal/store"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// envelope is the uniform response shape: {success, data} plus count and
// pagination on list endpoints.
type envelope struct {
	Success    bool              `json:"success"`
	Count      *int              `json:"count,omitempty"`
	Pagination *store.Pagination `json:"pagination,omitempty"`
	Data       interface{}       `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondList(c *gin.Context, count int, pagination store.Pagination, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Count: &count, Pagination: &pagination, Data: data})
}

// respondErr maps the error taxonomy onto status codes. Policy denials are
// always 403; unexpected faults become an opaque 500 and get logged with
// detail server-side only.
func (h *Handler) respondErr(c *gin.Context, err error) {
	kind, ok := apperr.KindOf(err)
	if !ok {
		h.Logger.Error("unexpected fault",
			zap.String("route", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, envelope{Success: false, Error: "Internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindValidation, apperr.KindQuotaExceeded:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindForbidden:
		status = http.StatusForbidden
	}
	c.JSON(status, envelope{Success: false, Error: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Error: msg})
}

// objectIDParam parses a path parameter as an ObjectID, answering 400 on
// malformed input. The bool reports whether the handler should continue.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
