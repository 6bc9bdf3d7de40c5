package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"solar-rewards/internal/model"
	"solar-rewards/internal/service"
	apperrors "solar-rewards/pkg/errors"
)

// createPromotionHandler handles POST /api/promotions
func createPromotionHandler(svc *service.PromotionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.CreatePromotionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		promotion, err := svc.Create(c.Request.Context(), &req, time.Now().UTC())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, promotion)
	}
}

// listActivePromotionsHandler handles GET /api/promotions
func listActivePromotionsHandler(svc *service.PromotionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		promotions, err := svc.ListActive(c.Request.Context(), time.Now().UTC())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, promotions)
	}
}

// getPromotionHandler handles GET /api/promotions/:id
func getPromotionHandler(svc *service.PromotionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c)
		if !ok {
			return
		}

		promotion, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, promotion)
	}
}

// updatePromotionHandler handles PUT /api/promotions/:id
func updatePromotionHandler(svc *service.PromotionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c)
		if !ok {
			return
		}

		var patch model.UpdatePromotionRequest
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		promotion, err := svc.Update(c.Request.Context(), id, &patch, time.Now().UTC())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, promotion)
	}
}

// deletePromotionHandler handles DELETE /api/promotions/:id
func deletePromotionHandler(svc *service.PromotionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c)
		if !ok {
			return
		}

		promotion, err := svc.Delete(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, promotion)
	}
}

// joinPromotionHandler handles POST /api/promotions/:id/join
func joinPromotionHandler(svc *service.ParticipationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c)
		if !ok {
			return
		}

		var req model.JoinPromotionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		participation, err := svc.Join(c.Request.Context(), id, req.InstallerID, time.Now().UTC())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, participation)
	}
}

// refreshProgressHandler handles POST /api/promotions/:id/refresh
func refreshProgressHandler(svc *service.ParticipationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c)
		if !ok {
			return
		}

		var req model.JoinPromotionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		participation, err := svc.RefreshProgress(c.Request.Context(), id, req.InstallerID, time.Now().UTC())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, participation)
	}
}

// listForInstallerHandler handles GET /api/installers/:id/promotions
func listForInstallerHandler(svc *service.ParticipationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		installerID := c.Param("id")
		if installerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "installer id is required"})
			return
		}

		offers, err := svc.ListForInstaller(c.Request.Context(), installerID, time.Now().UTC())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, offers)
	}
}

// setRewardStatusHandler handles PATCH /api/participations/:id/reward
func setRewardStatusHandler(svc *service.ParticipationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c)
		if !ok {
			return
		}

		var req model.SetRewardStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		participation, err := svc.SetRewardStatus(c.Request.Context(), id, req.Status, req.AdminID, time.Now().UTC())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, participation)
	}
}

// objectIDParam parses the :id path parameter, responding 400 on bad input.
func objectIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondError maps domain errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	var ineligibleErr *apperrors.IneligibleError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": validationErr.Fields})
	case errors.As(err, &ineligibleErr):
		c.JSON(http.StatusForbidden, gin.H{"error": "installer not eligible", "rule": ineligibleErr.Rule})
	case errors.Is(err, apperrors.ErrPromotionNotFound),
		errors.Is(err, apperrors.ErrParticipationNotFound),
		errors.Is(err, apperrors.ErrInstallerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyParticipating),
		errors.Is(err, apperrors.ErrParticipationNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
