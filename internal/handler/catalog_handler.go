package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type catalogService[T any] interface {
	Recent(ctx context.Context) ([]T, error)
	List(ctx context.Context, q service.ListQuery) (*service.Page[T], error)
	Mine(ctx context.Context, actor model.Actor) ([]T, error)
	ByAuthor(ctx context.Context, authorID, excludeID uint64) ([]T, error)
	ToggleLike(ctx context.Context, actor model.Actor, id uint64) (service.LikeResult, error)
	AddComment(ctx context.Context, actor model.Actor, id uint64, text string) ([]model.Comment, error)
	Delete(ctx context.Context, actor model.Actor, id uint64) error
}

// catalogHandler serves the endpoints liveries and detail kits have in common.
type catalogHandler[T any] struct {
	catalog catalogService[T]
	logger  *zap.Logger
}

type CommentReq struct {
	Text string `json:"text"`
}

func (h *catalogHandler[T]) Recent(c *gin.Context) {
	rows, err := h.catalog.Recent(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *catalogHandler[T]) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	q := service.ListQuery{
		Aircraft: c.Query("aircraft"),
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     page,
		Limit:    limit,
	}

	result, err := h.catalog.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *catalogHandler[T]) Mine(c *gin.Context) {
	rows, err := h.catalog.Mine(c.Request.Context(), mustActor(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *catalogHandler[T]) ByAuthor(c *gin.Context) {
	authorID, ok := parseID(c, "authorId")
	if !ok {
		return
	}
	rows, err := h.catalog.ByAuthor(c.Request.Context(), authorID, optionalID(c.Param("excludeId")))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *catalogHandler[T]) Like(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.catalog.ToggleLike(c.Request.Context(), mustActor(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *catalogHandler[T]) Comment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	comments, err := h.catalog.AddComment(c.Request.Context(), mustActor(c), id, req.Text)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comments)
}

func (h *catalogHandler[T]) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}
