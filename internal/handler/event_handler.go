package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/spayd_api/internal/service"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// EventHandler handles event management.
type EventHandler struct {
	eventSvc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(eventSvc *service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// ListEvents handles GET /v1/admin/events?accountId=
func (h *EventHandler) ListEvents(c *gin.Context) {
	accountID, ok := queryInt64(c, "accountId")
	if !ok {
		return
	}
	events, err := h.eventSvc.List(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Events retrieved", events)
}

// GetEvent handles GET /v1/admin/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	e, err := h.eventSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Event retrieved", e)
}

// CreateEvent handles POST /v1/admin/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var in service.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidRequest(c, err)
		return
	}
	e, err := h.eventSvc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Event created", e)
}

// UpdateEvent handles PUT /v1/admin/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in service.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidRequest(c, err)
		return
	}
	e, err := h.eventSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Event updated", e)
}

// DeleteEvent handles DELETE /v1/admin/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.eventSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Event deleted", nil)
}
