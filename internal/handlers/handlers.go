package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"staffdesk/api/internal/config"
	"staffdesk/api/internal/middleware"
	"staffdesk/api/internal/models"
	"staffdesk/api/internal/notify"
	"staffdesk/api/internal/repository"
	"staffdesk/api/internal/service"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	db          *pgxpool.Pool
	cache       *redis.Client
	accounts    *service.AccountService
	employees   *service.EmployeeService
	departments *service.DepartmentService
	requests    *service.RequestService
	workflows   *service.WorkflowService
	accountRepo *repository.AccountRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, dispatcher notify.Dispatcher, cfg *config.AppConfig) HandlerSet {
	accountRepo := repository.NewAccountRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	sync := service.NewEmployeeSync(employeeRepo, workflowRepo, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		db:          db,
		cache:       cache,
		accounts:    service.NewAccountService(accountRepo, tokenRepo, employeeRepo, workflowRepo, sync, dispatcher, cfg, log),
		employees:   service.NewEmployeeService(employeeRepo, workflowRepo, log),
		departments: service.NewDepartmentService(departmentRepo, employeeRepo, workflowRepo, log),
		requests:    service.NewRequestService(requestRepo, accountRepo, employeeRepo, log),
		workflows:   service.NewWorkflowService(workflowRepo, employeeRepo, log),
		accountRepo: accountRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := middleware.Auth(h.cfg, h.accountRepo)
	admin := middleware.RequireRoles(models.RoleAdmin)
	selfOrAdmin := middleware.SelfOrAdmin("id")

	accounts := router.Group("/accounts")
	{
		accounts.POST("/authenticate", h.Authenticate)
		accounts.POST("/refresh-token", h.RefreshToken)
		accounts.POST("/register", h.RegisterAccount)
		accounts.POST("/verify-email", h.VerifyEmail)
		accounts.GET("/verify-email/:token", h.VerifyEmailLink)
		accounts.POST("/forgot-password", h.ForgotPassword)
		accounts.POST("/validate-reset-token", h.ValidateResetToken)
		accounts.POST("/reset-password", h.ResetPassword)

		accounts.POST("/revoke-token", auth, h.RevokeToken)
		accounts.GET("", auth, admin, h.GetAllAccounts)
		accounts.POST("", auth, admin, h.CreateAccount)
		accounts.POST("/delete-non-admin", auth, admin, h.DeleteAllNonAdmin)
		accounts.GET("/:id", auth, selfOrAdmin, h.GetAccount)
		accounts.PUT("/:id", auth, selfOrAdmin, h.UpdateAccount)
		accounts.PUT("/:id/status", auth, admin, h.UpdateAccountStatus)
		accounts.DELETE("/:id", auth, selfOrAdmin, h.DeleteAccount)
	}

	employees := router.Group("/employees", auth)
	{
		employees.GET("", h.GetAllEmployees)
		employees.GET("/:id", h.GetEmployee)
		employees.POST("", admin, h.CreateEmployee)
		employees.PUT("/:id", admin, h.UpdateEmployee)
		employees.PUT("/:id/transfer", admin, h.TransferEmployee)
		employees.DELETE("/:id", admin, h.DeleteEmployee)
	}

	departments := router.Group("/departments", auth)
	{
		departments.GET("", h.GetAllDepartments)
		departments.GET("/:id", h.GetDepartment)
		departments.POST("", admin, h.CreateDepartment)
		departments.PUT("/:id", admin, h.UpdateDepartment)
		departments.DELETE("/:id", admin, h.DeleteDepartment)
	}

	requests := router.Group("/requests", auth)
	{
		requests.GET("", h.GetRequests)
		requests.GET("/:id", h.GetRequest)
		requests.POST("", h.CreateRequest)
		requests.PUT("/:id", admin, h.UpdateRequest)
		requests.DELETE("/:id", admin, h.DeleteRequest)
	}

	workflows := router.Group("/workflows", auth)
	{
		workflows.GET("", h.GetWorkflows)
		workflows.GET("/:id", h.GetWorkflow)
		workflows.POST("", admin, h.CreateWorkflow)
		workflows.PUT("/:id/status", admin, h.UpdateWorkflowStatus)
		workflows.DELETE("/:id", admin, h.DeleteWorkflow)
	}
}
