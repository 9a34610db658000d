package controllers

import (
	"errors"
	"net/http"

	"healthtracker/middlewares"
	"healthtracker/models"
	"healthtracker/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HealthRecordController struct {
	Records *services.HealthRecordService
	Log     *zap.Logger
}

func NewHealthRecordController(records *services.HealthRecordService, log *zap.Logger) *HealthRecordController {
	return &HealthRecordController{Records: records, Log: log}
}

func (hc *HealthRecordController) GetHealthRecords(c *gin.Context) {
	recs, err := hc.Records.ListRecords(c.Request.Context())
	if err != nil {
		hc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (hc *HealthRecordController) GetHealthRecordByID(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	rec, err := hc.Records.GetRecord(c.Request.Context(), id)
	if err != nil {
		hc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (hc *HealthRecordController) CreateHealthRecord(c *gin.Context) {
	var req models.HealthRecordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := hc.Records.CreateRecord(c.Request.Context(), req)
	if err != nil {
		hc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (hc *HealthRecordController) UpdateHealthRecord(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	var req models.HealthRecordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := hc.Records.UpdateRecord(c.Request.Context(), id, req)
	if err != nil {
		hc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (hc *HealthRecordController) DeleteHealthRecord(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := hc.Records.DeleteRecord(c.Request.Context(), id); err != nil {
		hc.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recordID validates the :id path parameter and answers 400 if it is not a UUID.
func recordID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid health record id"})
		return "", false
	}
	return id, true
}

func (hc *HealthRecordController) fail(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, services.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrRecordNotFound.Error()})
	default:
		_ = c.Error(err)
		hc.Log.Error("health record request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": middlewares.GenericErrorMessage})
	}
}
