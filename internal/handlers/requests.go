package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staffdesk/api/internal/middleware"
	"staffdesk/api/internal/models"
	"staffdesk/api/internal/service"
)

// GetRequests returns every request for admins and only the caller's own
// for everyone else.
func (h HandlerSet) GetRequests(c *gin.Context) {
	caller, _ := middleware.CurrentAccount(c)

	var (
		requests []models.Request
		err      error
	)
	if caller.Role == models.RoleAdmin {
		requests, err = h.requests.GetAll(c.Request.Context())
	} else {
		requests, err = h.requests.GetAllByAccount(c.Request.Context(), caller.ID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRequestResponses(requests))
}

func (h HandlerSet) GetRequest(c *gin.Context) {
	request, err := h.requests.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	if caller.Role != models.RoleAdmin && request.AccountID != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(request))
}

type requestItemPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
}

type requestPayload struct {
	AccountID   string               `json:"accountId"`
	Type        string               `json:"type" binding:"required"`
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description"`
	Status      string               `json:"status"`
	Items       []requestItemPayload `json:"items"`
}

func (r requestPayload) toInput(actorID string) service.RequestInput {
	input := service.RequestInput{
		AccountID:   r.AccountID,
		Type:        models.RequestType(r.Type),
		Title:       r.Title,
		Description: r.Description,
		Status:      models.RequestStatus(r.Status),
		ActorID:     actorID,
	}
	for _, item := range r.Items {
		input.Items = append(input.Items, service.RequestItemInput{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Status:      models.RequestStatus(item.Status),
		})
	}
	return input
}

func (h HandlerSet) CreateRequest(c *gin.Context) {
	var req requestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	if req.AccountID == "" || caller.Role != models.RoleAdmin {
		req.AccountID = caller.ID
	}

	request, err := h.requests.Create(c.Request.Context(), req.toInput(caller.ID))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRequestResponse(request))
}

func (h HandlerSet) UpdateRequest(c *gin.Context) {
	var req requestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	request, err := h.requests.Update(c.Request.Context(), c.Param("id"), req.toInput(caller.ID))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(request))
}

func (h HandlerSet) DeleteRequest(c *gin.Context) {
	if err := h.requests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request deleted successfully"})
}
