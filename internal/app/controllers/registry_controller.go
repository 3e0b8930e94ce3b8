package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/choirdinated/backend/internal/app/services"
	"github.com/choirdinated/backend/internal/middleware"
)

// RegistryController fronts Brønnøysund register lookups
type RegistryController struct {
	registryService *services.RegistryService
}

// NewRegistryController creates a new RegistryController
func NewRegistryController(registryService *services.RegistryService) *RegistryController {
	return &RegistryController{registryService: registryService}
}

// Lookup fetches an organization by number
// @Summary Look up organization
// @Description Fetches an organization from the Brønnøysund register by organization number. Unknown numbers return null data.
// @Tags registry
// @Produce json
// @Security BearerAuth
// @Param orgNumber path string true "Organization number (9 digits)"
// @Success 200 {object} dto.APIResponse "Organization, or null when not registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid organization number"
// @Failure 500 {object} dto.ErrorResponse "Register unavailable"
// @Router /registry/organizations/{orgNumber} [get]
func (c *RegistryController) Lookup(ctx *gin.Context) {
	org, err := c.registryService.Lookup(ctx, ctx.Param("orgNumber"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, org)
}

// Search finds organizations by name
// @Summary Search organizations
// @Description Searches the Brønnøysund register by organization name
// @Tags registry
// @Produce json
// @Security BearerAuth
// @Param name query string true "Organization name"
// @Success 200 {object} dto.APIResponse "Organizations"
// @Failure 400 {object} dto.ErrorResponse "Missing name"
// @Failure 500 {object} dto.ErrorResponse "Register unavailable"
// @Router /registry/organizations [get]
func (c *RegistryController) Search(ctx *gin.Context) {
	orgs, err := c.registryService.Search(ctx, ctx.Query("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, orgs)
}
