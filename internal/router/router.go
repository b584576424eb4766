package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/szigetelo/backoffice/docs"
	"github.com/szigetelo/backoffice/internal/config"
	"github.com/szigetelo/backoffice/internal/middleware"
	"github.com/szigetelo/backoffice/internal/modules/handler"
	"github.com/szigetelo/backoffice/internal/modules/serializer"
	"github.com/szigetelo/backoffice/internal/modules/service"
	"github.com/szigetelo/backoffice/internal/pkg/validation"
	"github.com/szigetelo/backoffice/internal/telemetry"
)

type RouterDeps struct {
	Config                  *config.Config
	Log                     *zap.Logger
	UserService             service.UserService
	PermissionMatrixHandler *handler.PermissionMatrixHandler
	CompanyHandler          *handler.CompanyHandler
	DocumentHandler         *handler.DocumentHandler
	InviteHandler           *handler.InviteHandler
	PhotoHandler            *handler.PhotoHandler
	PhotoCategoryHandler    *handler.PhotoCategoryHandler
	ProjectHandler          *handler.ProjectHandler
}

func NewRouter(d RouterDeps) (*gin.Engine, error) {
	serializer.SetLogger(d.Log)
	if err := validation.Register(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(telemetry.GinMiddleware(d.Config.App.Name))
		r.Use(telemetry.TraceIDMiddleware())
	}

	r.Use(middleware.RequestLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.Use(middleware.Identify(d.UserService))

		companies := api.Group("/companies")
		{
			companies.POST("", d.CompanyHandler.CreateCompany)
			companies.GET("/:id", d.CompanyHandler.GetCompany)

			companies.GET("/:id/permission-matrix", d.PermissionMatrixHandler.GetPermissionMatrix)
			companies.PUT("/:id/permission-matrix", d.PermissionMatrixHandler.UpdatePermissionMatrix)
			companies.POST("/:id/permission-matrix", d.PermissionMatrixHandler.UpdatePermissionMatrix)
		}

		documents := api.Group("/documents")
		{
			documents.POST("/generate", d.DocumentHandler.GenerateDocument)
			documents.POST("/regenerate-with-signature", d.DocumentHandler.RegenerateWithSignature)
		}

		invite := api.Group("/invite")
		{
			invite.POST("", d.InviteHandler.Invite)
			invite.POST("/confirm-and-request-reset", d.InviteHandler.ConfirmAndRequestReset)
			invite.POST("/resend-confirmation", d.InviteHandler.ResendConfirmation)
		}

		photos := api.Group("/photos")
		{
			photos.POST("/create-with-relations", d.PhotoHandler.CreateWithRelations)
			photos.PUT("/:id/update-with-relations", d.PhotoHandler.UpdateWithRelations)
		}

		categories := api.Group("/photo-categories")
		{
			categories.GET("", d.PhotoCategoryHandler.ListPhotoCategories)
			categories.POST("", d.PhotoCategoryHandler.CreatePhotoCategory)
			categories.PUT("/:id", d.PhotoCategoryHandler.UpdatePhotoCategory)
		}

		projects := api.Group("/projects")
		{
			projects.POST("", d.ProjectHandler.CreateProject)
			projects.GET("", d.ProjectHandler.ListProjects)
			projects.POST("/bulk-export", d.ProjectHandler.BulkExport)
			projects.GET("/started-for-billing", d.ProjectHandler.StartedForBilling)

			projects.GET("/:id", d.ProjectHandler.GetProject)
			projects.PUT("/:id/status", d.ProjectHandler.UpdateProjectStatus)
			projects.GET("/:id/contract-status", d.ProjectHandler.GetContractStatus)
			projects.GET("/:id/audit-log", d.ProjectHandler.GetAuditLog)
			projects.GET("/:id/documents", d.DocumentHandler.ListProjectDocuments)
			projects.GET("/:id/photos", d.PhotoHandler.ListProjectPhotos)
		}
	}

	return r, nil
}
