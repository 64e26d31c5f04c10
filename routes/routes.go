package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/config"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/controllers"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/middleware"
)

// RegisterFormRoutes wires the product-form endpoints onto the router.
// Everything except the health check sits behind staff authentication.
func RegisterFormRoutes(r *gin.Engine, controller *controllers.FormController, cfg config.Config) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/forms")
	api.Use(middleware.StaffAuth(cfg.JWTSecret))
	{
		api.POST("", controller.OpenForm)
		api.GET("/:id", controller.GetForm)
		api.DELETE("/:id", controller.DiscardForm)

		api.POST("/:id/changes", controller.ChangeField)

		api.POST("/:id/tags", controller.AddTag)
		api.DELETE("/:id/tags/:tag", controller.RemoveTag)
		api.POST("/:id/features", controller.AddFeature)
		api.DELETE("/:id/features/:index", controller.RemoveFeature)
		api.POST("/:id/keywords", controller.AddKeyword)
		api.DELETE("/:id/keywords/:index", controller.RemoveKeyword)
		api.PUT("/:id/specifications", controller.SetSpecifications)

		api.POST("/:id/variants", controller.AddVariant)
		api.PATCH("/:id/variants/:index", controller.UpdateVariant)
		api.DELETE("/:id/variants/:index", controller.RemoveVariant)

		api.POST("/:id/images", controller.UploadImage)
		api.DELETE("/:id/images/:slot", controller.RemoveImage)
		api.DELETE("/:id/images/:slot/:index", controller.RemoveImage)

		api.POST("/:id/validate", controller.ValidateStep)
		api.POST("/:id/reset", controller.ResetForm)
		api.POST("/:id/submit", controller.SubmitForm)
	}
}
