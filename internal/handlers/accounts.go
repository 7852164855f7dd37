package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffdesk/api/internal/middleware"
	"staffdesk/api/internal/models"
	"staffdesk/api/internal/service"
)

const refreshCookieName = "refreshToken"

type authenticateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	accountResponse
	JWTToken     string `json:"jwtToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h HandlerSet) Authenticate(c *gin.Context) {
	var req authenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, authResponse{
		accountResponse: toAccountResponse(result.Account),
		JWTToken:        result.SessionToken,
		RefreshToken:    result.RefreshToken,
	})
}

type tokenRequest struct {
	Token string `json:"token"`
}

// refreshTokenValue prefers the HTTP-only cookie and falls back to the
// request body.
func refreshTokenValue(c *gin.Context) string {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie != "" {
		return cookie
	}
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.Token
	}
	return ""
}

func (h HandlerSet) RefreshToken(c *gin.Context) {
	token := refreshTokenValue(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "token is required"})
		return
	}

	result, err := h.accounts.RefreshToken(c.Request.Context(), token, c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, authResponse{
		accountResponse: toAccountResponse(result.Account),
		JWTToken:        result.SessionToken,
		RefreshToken:    result.RefreshToken,
	})
}

// RevokeToken lets a caller kill their own session; admins can revoke any.
func (h HandlerSet) RevokeToken(c *gin.Context) {
	token := refreshTokenValue(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "token is required"})
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	owned, err := h.accounts.GetRefreshToken(c.Request.Context(), token)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if caller.Role != models.RoleAdmin && owned.AccountID != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
		return
	}

	if err := h.accounts.RevokeToken(c.Request.Context(), token, c.ClientIP()); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token revoked"})
}

type registerRequest struct {
	Title     string `json:"title"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

func (h HandlerSet) RegisterAccount(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Title:     req.Title,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}, c.GetHeader("Origin"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": result.Message})
}

func (h HandlerSet) VerifyEmail(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "token is required"})
		return
	}
	h.verifyEmailToken(c, req.Token)
}

// VerifyEmailLink serves the link embedded in the verification mail.
func (h HandlerSet) VerifyEmailLink(c *gin.Context) {
	h.verifyEmailToken(c, c.Param("token"))
}

func (h HandlerSet) verifyEmailToken(c *gin.Context, token string) {
	if err := h.accounts.VerifyEmail(c.Request.Context(), token); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification successful, you can now login"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h HandlerSet) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.accounts.ForgotPassword(c.Request.Context(), req.Email, c.GetHeader("Origin")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Please check your email for password reset instructions"})
}

func (h HandlerSet) ValidateResetToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "token is required"})
		return
	}

	if _, err := h.accounts.ValidateResetToken(c.Request.Context(), req.Token); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token is valid"})
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h HandlerSet) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful, you can now login"})
}

func (h HandlerSet) GetAllAccounts(c *gin.Context) {
	accounts, err := h.accounts.GetAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, toAccountResponse(account))
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) GetAccount(c *gin.Context) {
	account, err := h.accounts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(account))
}

type createAccountRequest struct {
	Title     string `json:"title"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role"`
	Position  string `json:"position"`
}

func (h HandlerSet) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), service.CreateInput{
		Title:     req.Title,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      models.Role(req.Role),
		Position:  req.Position,
	}, c.GetHeader("Origin"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAccountResponse(account))
}

type updateAccountRequest struct {
	Title     *string `json:"title"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	Status    *string `json:"status"`
}

func (h HandlerSet) UpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	account, err := h.accounts.Update(c.Request.Context(), c.Param("id"), service.UpdateInput{
		Title:     req.Title,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Status:    req.Status,
		ActorID:   caller.ID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(account))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateAccountStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	account, err := h.accounts.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(account))
}

func (h HandlerSet) DeleteAccount(c *gin.Context) {
	if err := h.accounts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (h HandlerSet) DeleteAllNonAdmin(c *gin.Context) {
	deleted, err := h.accounts.DeleteAllNonAdmin(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Successfully deleted %d non-admin users", deleted),
		"deletedCount": deleted,
	})
}

func (h HandlerSet) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(
		refreshCookieName,
		token,
		int(h.cfg.Security.RefreshTTL.Seconds()),
		"/",
		"",
		h.cfg.Environment == "production",
		true,
	)
}
