package routes

import (
	"github.com/gin-gonic/gin"

	"csifest/controllers"
)

func SetupRouter(
	reg *controllers.RegistrationController,
	events *controllers.EventController,
	stats *controllers.StatsController,
) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	{
		// Any method: the controller answers 405 + Allow: POST itself.
		api.Any("/register", reg.Register)
		api.GET("/events", events.List)
		api.GET("/stats", stats.Count)
		api.GET("/health", controllers.Health)
	}

	return r
}
