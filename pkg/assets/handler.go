package assets

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"assettracker/pkg/logging"
	"assettracker/pkg/response"
)

type AssetHandler struct {
	service AssetService
	log     logrus.FieldLogger
}

func NewAssetHandler(service AssetService, log logrus.FieldLogger) *AssetHandler {
	return &AssetHandler{service: service, log: log}
}

func (h *AssetHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/assets", h.listAssets)
	router.GET("/assets/:id", h.getAssetByID)
	router.POST("/assets", h.createAsset)
	router.PUT("/assets/:id", h.updateAsset)
	router.DELETE("/assets/:id", h.deleteAsset)
}

// @Summary      List assets
// @Description  Returns all assets, optionally filtered by name, serial number (partial, case-insensitive) or exact status
// @Tags         assets
// @Produce      json
// @Param        name          query     string  false  "Partial name match"
// @Param        serialNumber  query     string  false  "Partial serial number match"
// @Param        status        query     string  false  "Exact status" Enums(AVAILABLE, IN_USE, MAINTENANCE, DISPOSED)
// @Success      200  {array}   AssetResponse
// @Failure      400  {object}  response.APIError "Invalid status filter"
// @Failure      500  {object}  response.APIError "Internal server error"
// @Router       /assets [get]
func (h *AssetHandler) listAssets(c *gin.Context) {
	var status *Status
	if raw := c.Query("status"); raw != "" {
		s, ok := ParseStatus(raw)
		if !ok {
			response.SendError(c, response.CodeValidation, "", []response.FieldError{
				{Field: "status", Message: "status must be one of [AVAILABLE IN_USE MAINTENANCE DISPOSED]"},
			})
			return
		}
		status = &s
	}

	items, err := h.service.FindAll(c.Request.Context(), c.Query("name"), c.Query("serialNumber"), status)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// @Summary      Get asset by ID
// @Tags         assets
// @Produce      json
// @Param        id   path      string  true  "Asset ID" format(uuid)
// @Success      200  {object}  AssetResponse
// @Failure      400  {object}  response.APIError "Invalid asset ID"
// @Failure      404  {object}  response.APIError "Asset not found"
// @Failure      500  {object}  response.APIError "Internal server error"
// @Router       /assets/{id} [get]
func (h *AssetHandler) getAssetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	asset, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

// @Summary      Create asset
// @Description  Creates an asset. Status defaults to AVAILABLE when omitted.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body AssetRequest true "Asset creation request"
// @Success      201  {object}  AssetResponse
// @Header       201  {string}  Location "URL of the created asset"
// @Failure      400  {object}  response.APIError "Validation error"
// @Failure      409  {object}  response.APIError "Serial number already exists"
// @Failure      500  {object}  response.APIError "Internal server error"
// @Router       /assets [post]
func (h *AssetHandler) createAsset(c *gin.Context) {
	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, response.CodeValidation, "", response.ValidationDetails(err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Location", "/assets/"+created.ID.String())
	c.JSON(http.StatusCreated, created)
}

// @Summary      Update asset
// @Description  Replaces every field of an asset. Omitted status resets to AVAILABLE.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id      path  string        true  "Asset ID" format(uuid)
// @Param        request body  AssetRequest  true  "Asset update request"
// @Success      200  {object}  AssetResponse
// @Failure      400  {object}  response.APIError "Validation error"
// @Failure      404  {object}  response.APIError "Asset not found"
// @Failure      409  {object}  response.APIError "Serial number already exists"
// @Failure      500  {object}  response.APIError "Internal server error"
// @Router       /assets/{id} [put]
func (h *AssetHandler) updateAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, response.CodeValidation, "", response.ValidationDetails(err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete asset
// @Tags         assets
// @Param        id   path  string  true  "Asset ID" format(uuid)
// @Success      204  "No content"
// @Failure      400  {object}  response.APIError "Invalid asset ID"
// @Failure      404  {object}  response.APIError "Asset not found"
// @Failure      500  {object}  response.APIError "Internal server error"
// @Router       /assets/{id} [delete]
func (h *AssetHandler) deleteAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteByID(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.SendError(c, response.CodeValidation, "", []response.FieldError{
			{Field: "id", Message: "id must be a valid UUID"},
		})
		return uuid.Nil, false
	}
	return id, true
}

func (h *AssetHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDuplicateSerialNumber):
		response.SendError(c, response.CodeSerialDuplicate, err.Error(), nil)
	case errors.Is(err, ErrAssetNotFound):
		response.SendError(c, response.CodeAssetNotFound, err.Error(), nil)
	case errors.Is(err, ErrDeleteAssetNotFound):
		response.SendError(c, response.CodeDeleteNotFound, err.Error(), nil)
	default:
		logging.FromContext(c, h.log).WithError(err).Error("unhandled error")
		response.SendError(c, response.CodeInternal, "", nil)
	}
}
