package handler

import (
	"net/http"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LiveryHandler struct {
	*catalogHandler[model.Livery]
	svc *service.LiveryService
}

func NewLiveryHandler(svc *service.LiveryService, logger *zap.Logger) *LiveryHandler {
	return &LiveryHandler{
		catalogHandler: &catalogHandler[model.Livery]{catalog: svc, logger: logger},
		svc:            svc,
	}
}

func (h *LiveryHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	livery, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, livery)
}

// Create accepts multipart/form-data with up to five "images" files.
func (h *LiveryHandler) Create(c *gin.Context) {
	files, closeFiles, err := formImages(c, "images")
	if err != nil {
		badRequest(c, "expected multipart form data")
		return
	}
	defer closeFiles()

	in := service.LiveryInput{
		Name:        c.PostForm("name"),
		Aircraft:    c.PostForm("aircraft"),
		Description: c.PostForm("description"),
		Tags:        formList(c, "tags"),
		DecalIDs:    formList(c, "decalIds"),
		Exclusive:   formBool(c, "exclusive"),
	}
	livery, err := h.svc.Create(c.Request.Context(), mustActor(c), in, files)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, livery)
}

func (h *LiveryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var patch service.LiveryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid params")
		return
	}
	livery, err := h.svc.Update(c.Request.Context(), mustActor(c), id, patch)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, livery)
}
