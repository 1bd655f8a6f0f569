package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/peerpath/internal/domain/academic"
	"github.com/yungbote/peerpath/internal/http/response"
	"github.com/yungbote/peerpath/internal/recommend"
)

type Recommender interface {
	Recommend(ctx context.Context, name string, opts recommend.Options) (*recommend.Result, error)
	CoursePath(ctx context.Context, name string, order academic.Order) ([]academic.CompletionEdge, error)
}

type RecommendHandler struct {
	svc Recommender
}

func NewRecommendHandler(svc Recommender) *RecommendHandler {
	return &RecommendHandler{svc: svc}
}

type recommendationQuery struct {
	Name string `form:"name" binding:"required"`
	TopK int    `form:"top_k" binding:"omitempty,min=1"`
}

// GET /ml/recommendations?name=<student>&top_k=<n>
func (h *RecommendHandler) Recommendations(c *gin.Context) {
	var q recommendationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.svc.Recommend(c.Request.Context(), q.Name, recommend.Options{Neighbors: q.TopK})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

type coursePathResponse struct {
	Name    string                    `json:"name"`
	Order   string                    `json:"order"`
	Courses []academic.CompletionEdge `json:"courses"`
}

// GET /students/:name/path?order=asc|desc
func (h *RecommendHandler) CoursePath(c *gin.Context) {
	name := c.Param("name")
	order, err := academic.ParseOrder(c.Query("order"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	path, err := h.svc.CoursePath(c.Request.Context(), name, order)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	label := "asc"
	if order == academic.Descending {
		label = "desc"
	}
	response.RespondOK(c, coursePathResponse{Name: name, Order: label, Courses: path})
}
