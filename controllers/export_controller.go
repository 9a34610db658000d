package controllers

import (
	"errors"
	"net/http"

	"healthtracker/middlewares"
	"healthtracker/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ExportController struct {
	Exports *services.ExportService
	Log     *zap.Logger
}

func NewExportController(exports *services.ExportService, log *zap.Logger) *ExportController {
	return &ExportController{Exports: exports, Log: log}
}

// CreateExport uploads a JSON snapshot of all records to S3.
func (ec *ExportController) CreateExport(c *gin.Context) {
	res, err := ec.Exports.Export(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrExportDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		ec.Log.Error("export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": middlewares.GenericErrorMessage})
		return
	}
	c.JSON(http.StatusCreated, res)
}
