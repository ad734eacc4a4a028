package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"csifest/services"
	"csifest/utils"
)

type StatsController struct {
	svc *services.StatsService
}

func NewStatsController(svc *services.StatsService) *StatsController {
	return &StatsController{svc: svc}
}

func (sc *StatsController) Count(c *gin.Context) {
	count, err := sc.svc.RegistrationCount(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to count registrations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": count})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
