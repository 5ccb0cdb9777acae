package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/liverylibrary/backend/internal/media"
	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	svc    *service.UserService
	logger *zap.Logger
}

type BioReq struct {
	Bio string `json:"bio"`
}

type RenameReq struct {
	Username string `json:"username" binding:"required"`
}

func NewUserHandler(svc *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.svc.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Top(c *gin.Context) {
	users, err := h.svc.Top(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.svc.Search(c.Request.Context(), c.Param("query"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	h.uploadImage(c, "avatar", h.svc.SetAvatar)
}

func (h *UserHandler) SetBanner(c *gin.Context) {
	h.uploadImage(c, "banner", h.svc.SetBanner)
}

// uploadImage stores the single file sent under field and answers with its URL.
func (h *UserHandler) uploadImage(c *gin.Context, field string, set func(context.Context, model.Actor, media.File) (string, error)) {
	header, err := c.FormFile(field)
	if err != nil {
		badRequest(c, "missing "+field+" file")
		return
	}
	files, closeFiles, err := openFiles([]*multipart.FileHeader{header})
	if err != nil {
		badRequest(c, "unreadable "+field+" file")
		return
	}
	defer closeFiles()

	url, err := set(c.Request.Context(), mustActor(c), files[0])
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{field + "Url": url})
}

func (h *UserHandler) UpdateBio(c *gin.Context) {
	var req BioReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	bio, err := h.svc.UpdateBio(c.Request.Context(), mustActor(c), req.Bio)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bio": bio})
}

func (h *UserHandler) ClearAvatar(c *gin.Context) {
	h.clearImage(c, h.svc.ClearAvatar)
}

func (h *UserHandler) ClearBanner(c *gin.Context) {
	h.clearImage(c, h.svc.ClearBanner)
}

func (h *UserHandler) clearImage(c *gin.Context, clear func(context.Context, model.Actor, uint64) error) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := clear(c.Request.Context(), mustActor(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *UserHandler) Rename(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req RenameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	user, err := h.svc.Rename(c.Request.Context(), mustActor(c), id, req.Username)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
