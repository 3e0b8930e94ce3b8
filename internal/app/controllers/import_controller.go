package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/choirdinated/backend/internal/app/models/dto"
	"github.com/choirdinated/backend/internal/app/services"
	"github.com/choirdinated/backend/internal/middleware"
)

// ImportController handles spreadsheet member import endpoints
type ImportController struct {
	importService *services.ImportService
}

// NewImportController creates a new ImportController
func NewImportController(importService *services.ImportService) *ImportController {
	return &ImportController{importService: importService}
}

// Preview dry-runs an import batch
// @Summary Preview import
// @Description Maps taxonomy labels and reports what an execute would do, without writing
// @Tags import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param request body dto.ImportRequest true "Import rows"
// @Success 200 {object} dto.APIResponse{data=dto.ImportPreview} "Preview"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/import/members/preview [post]
func (c *ImportController) Preview(ctx *gin.Context) {
	var req dto.ImportRequest
	if !bindJSON(ctx, &req) {
		return
	}

	preview, err := c.importService.Preview(ctx, callerChoirID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, preview)
}

// Execute runs an import batch
// @Summary Execute import
// @Description Creates accounts, members and missing taxonomy entries from the batch
// @Tags import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choirId path int true "Choir ID"
// @Param request body dto.ImportRequest true "Import rows"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Result"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Insufficient role"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /choirs/{choirId}/import/members [post]
func (c *ImportController) Execute(ctx *gin.Context) {
	var req dto.ImportRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.importService.Execute(ctx, callerChoirID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, result)
}
