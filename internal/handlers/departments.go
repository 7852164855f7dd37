package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staffdesk/api/internal/middleware"
	"staffdesk/api/internal/service"
)

func (h HandlerSet) GetAllDepartments(c *gin.Context) {
	departments, err := h.departments.GetAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDepartmentResponses(departments))
}

func (h HandlerSet) GetDepartment(c *gin.Context) {
	department, err := h.departments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDepartmentResponse(department))
}

type departmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h HandlerSet) CreateDepartment(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	department, err := h.departments.Create(c.Request.Context(), service.DepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		ActorID:     caller.ID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDepartmentResponse(department))
}

type departmentUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h HandlerSet) UpdateDepartment(c *gin.Context) {
	var req departmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	department, err := h.departments.Update(c.Request.Context(), c.Param("id"), service.DepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		ActorID:     caller.ID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDepartmentResponse(department))
}

func (h HandlerSet) DeleteDepartment(c *gin.Context) {
	if err := h.departments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department deleted successfully"})
}
