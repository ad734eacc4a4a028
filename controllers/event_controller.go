package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"csifest/dto"
	"csifest/mappers"
	"csifest/storage"
	"csifest/utils"
)

type EventController struct {
	store storage.Store
}

func NewEventController(store storage.Store) *EventController {
	return &EventController{store: store}
}

// List returns the seeded event catalog. The submission client uses this as
// its validation catalog.
func (ec *EventController) List(c *gin.Context) {
	events, err := ec.store.ListEvents(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to list events")
		return
	}

	infos := make([]dto.EventInfo, 0, len(events))
	for _, ev := range events {
		infos = append(infos, mappers.MapEventToInfo(ev))
	}
	c.JSON(http.StatusOK, gin.H{"events": infos})
}
