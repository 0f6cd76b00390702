package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	"github.com/BruksfildServices01/equipment-rental/internal/config"
	"github.com/BruksfildServices01/equipment-rental/internal/handlers"
	infraRepo "github.com/BruksfildServices01/equipment-rental/internal/infra/repository"
	"github.com/BruksfildServices01/equipment-rental/internal/media"
	"github.com/BruksfildServices01/equipment-rental/internal/middleware"
	"github.com/BruksfildServices01/equipment-rental/internal/storage"
	"github.com/BruksfildServices01/equipment-rental/internal/timezone"
	ucCatalog "github.com/BruksfildServices01/equipment-rental/internal/usecase/catalog"
	ucLoan "github.com/BruksfildServices01/equipment-rental/internal/usecase/loan"
	ucReport "github.com/BruksfildServices01/equipment-rental/internal/usecase/report"
	ucUser "github.com/BruksfildServices01/equipment-rental/internal/usecase/user"
	"github.com/BruksfildServices01/equipment-rental/internal/validators"
)

// Deps are the long-lived singletons built by main. Store may be nil when
// image storage is not configured.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Issuer *auth.Issuer
	Audit  *audit.Dispatcher
	Store  storage.ObjectStore
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	validators.Register()

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// INFRA
	// ======================================================
	loanRepo := infraRepo.NewLoanGormRepository(d.DB)
	catalogRepo := infraRepo.NewCatalogGormRepository(d.DB)
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	reportRepo := infraRepo.NewReportGormRepository(d.DB)

	today := func() time.Time { return timezone.Today(cfg.Timezone) }

	// ======================================================
	// USE CASES
	// ======================================================
	userUC := ucUser.NewUsecase(userRepo, auth.NewPasswordHasher(cfg.BcryptCost), d.Issuer, d.Audit)
	catalogUC := ucCatalog.NewUsecase(catalogRepo, d.Audit, media.NewProcessor(cfg.ImageMaxDimension), d.Store)
	reportUC := ucReport.NewUsecase(reportRepo)

	listLoansUC := ucLoan.NewListLoans(loanRepo, today, cfg.LateFeePerDay)
	requestLoanUC := ucLoan.NewRequestLoan(loanRepo, d.Audit)
	updateLoanUC := ucLoan.NewUpdateLoan(loanRepo, d.Audit)
	deleteLoanUC := ucLoan.NewDeleteLoan(loanRepo, d.Audit)
	decideLoanUC := ucLoan.NewDecideLoan(loanRepo, d.Audit)
	processReturnUC := ucLoan.NewProcessReturn(loanRepo, d.Audit, cfg.LateFeePerDay)
	updateReturnUC := ucLoan.NewUpdateReturn(loanRepo, d.Audit, cfg.LateFeePerDay)
	deleteReturnUC := ucLoan.NewDeleteReturn(loanRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.DB)
	authHandler := handlers.NewAuthHandler(userUC)
	meHandler := handlers.NewMeHandler(userUC)
	userHandler := handlers.NewUserHandler(userUC)
	categoryHandler := handlers.NewCategoryHandler(catalogUC)
	equipmentHandler := handlers.NewEquipmentHandler(catalogUC)
	loanHandler := handlers.NewLoanHandler(requestLoanUC, updateLoanUC, deleteLoanUC, listLoansUC)
	approvalHandler := handlers.NewApprovalHandler(decideLoanUC, listLoansUC)
	returnHandler := handlers.NewReturnHandler(processReturnUC, updateReturnUC, deleteReturnUC, listLoansUC)
	reportHandler := handlers.NewReportHandler(reportUC)

	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMin)

	admin := middleware.RequireRoles(auth.RoleAdmin)
	staff := middleware.RequireRoles(auth.RoleAdmin, auth.RoleStaff)
	requester := middleware.RequireRoles(auth.RoleAdmin, auth.RoleBorrower)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/health", healthHandler.Check)
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Issuer))
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.POST("/auth/refresh", authHandler.Refresh)
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// CATALOG
			// ------------------------------
			secured.GET("/categories", categoryHandler.List)
			secured.POST("/categories", admin, categoryHandler.Create)
			secured.PUT("/categories/:id", admin, categoryHandler.Update)
			secured.DELETE("/categories/:id", admin, categoryHandler.Delete)

			secured.GET("/equipment", equipmentHandler.List)
			secured.GET("/equipment/:id", equipmentHandler.Get)
			secured.POST("/equipment", admin, equipmentHandler.Create)
			secured.PUT("/equipment/:id", admin, equipmentHandler.Update)
			secured.DELETE("/equipment/:id", admin, equipmentHandler.Delete)
			secured.POST("/equipment/:id/image", admin, equipmentHandler.UploadImage)

			// ------------------------------
			// USERS
			// ------------------------------
			secured.GET("/users", admin, userHandler.List)
			secured.GET("/users/:id", admin, userHandler.Get)
			secured.POST("/users", admin, userHandler.Create)
			secured.PUT("/users/:id", admin, userHandler.Update)
			secured.DELETE("/users/:id", admin, userHandler.Delete)

			// ------------------------------
			// LOANS
			// ------------------------------
			secured.GET("/loans", loanHandler.List)
			secured.GET("/loans/:id", loanHandler.Get)
			secured.POST("/loans", requester, loanHandler.Create)
			secured.PUT("/loans/:id", admin, loanHandler.Update)
			secured.DELETE("/loans/:id", admin, loanHandler.Delete)

			secured.POST("/approvals", staff, approvalHandler.Decide)

			secured.GET("/returns", staff, returnHandler.List)
			secured.POST("/returns", staff, returnHandler.Create)
			secured.PUT("/returns/:id", admin, returnHandler.Update)
			secured.DELETE("/returns/:id", admin, returnHandler.Delete)

			// ------------------------------
			// REPORTS
			// ------------------------------
			secured.GET("/reports", staff, reportHandler.Report)
			secured.GET("/reports/export", staff, reportHandler.Export)
			secured.GET("/stats", admin, reportHandler.Stats)
			secured.GET("/activity-logs", admin, reportHandler.ActivityLogs)
		}
	}
}
