package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"csifest/dto"
	"csifest/mappers"
	"csifest/services"
	"csifest/utils"
)

type RegistrationController struct {
	svc *services.RegistrationService
}

func NewRegistrationController(svc *services.RegistrationService) *RegistrationController {
	return &RegistrationController{svc: svc}
}

// Register handles POST /api/register. The route accepts any method and the
// check happens here, so non-POST requests get 405 with an Allow header
// rather than the router's default 404.
func (rc *RegistrationController) Register(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		utils.Error(c, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorDetails(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Normalize()

	result, err := rc.svc.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			utils.Error(c, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, services.ErrInvalidEvent):
			utils.ErrorDetails(c, http.StatusBadRequest, "Invalid event", req.EventSlug)
		case errors.Is(err, services.ErrCreateRegistration):
			utils.ErrorDetails(c, http.StatusInternalServerError, "Failed to create registration", err.Error())
		case errors.Is(err, services.ErrInsertParticipants):
			utils.ErrorDetails(c, http.StatusInternalServerError, "Failed to insert participants", err.Error())
		default:
			utils.ErrorDetails(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
		}
		return
	}

	if result.Registration != nil {
		c.JSON(http.StatusCreated, gin.H{
			"registration": mappers.MapRegistrationToView(result.Registration),
		})
		return
	}
	// Degraded success: the write landed but the view read did not.
	c.JSON(http.StatusCreated, gin.H{
		"registration_number": result.RegistrationNumber,
		"id":                  result.RegistrationID,
	})
}
