package handler

import (
	"net/http"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DetailKitHandler struct {
	*catalogHandler[model.DetailKit]
	svc *service.DetailKitService
}

func NewDetailKitHandler(svc *service.DetailKitService, logger *zap.Logger) *DetailKitHandler {
	return &DetailKitHandler{
		catalogHandler: &catalogHandler[model.DetailKit]{catalog: svc, logger: logger},
		svc:            svc,
	}
}

func (h *DetailKitHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	kit, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, kit)
}

func (h *DetailKitHandler) Create(c *gin.Context) {
	files, closeFiles, err := formImages(c, "images")
	if err != nil {
		badRequest(c, "expected multipart form data")
		return
	}
	defer closeFiles()

	in := service.DetailKitInput{
		Name:         c.PostForm("name"),
		Aircraft:     c.PostForm("aircraft"),
		Description:  c.PostForm("description"),
		Tags:         formList(c, "tags"),
		DownloadLink: c.PostForm("downloadLink"),
		Exclusive:    formBool(c, "exclusive"),
	}
	kit, err := h.svc.Create(c.Request.Context(), mustActor(c), in, files)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, kit)
}

func (h *DetailKitHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var patch service.DetailKitPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid params")
		return
	}
	kit, err := h.svc.Update(c.Request.Context(), mustActor(c), id, patch)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, kit)
}
