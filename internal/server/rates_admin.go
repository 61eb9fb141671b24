package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ratedomain "github.com/tajirhq/tajir/internal/rates/domain"
	"github.com/tajirhq/tajir/pkg/db/pagination"
)

type listRatesResponse struct {
	Rates    []*ratedomain.Response `json:"rates"`
	PageInfo *pagination.PageInfo   `json:"page_info"`
}

func (s *Server) ListRates(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if page.PageSize < 1 || page.PageSize > 250 {
		page.PageSize = 10
	}

	isEnabled, err := parseOptionalBool(c.Query("is_enabled"))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	list, err := s.rateSvc.List(c.Request.Context(), ratedomain.ListRequest{
		Kind:      ratedomain.RateKind(strings.ToLower(c.Query("kind"))),
		Country:   strings.ToUpper(c.Query("country")),
		Category:  strings.ToLower(c.Query("category")),
		IsEnabled: isEnabled,
		SortBy:    c.Query("sort_by"),
		OrderBy:   c.Query("order_by"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rates := make([]*ratedomain.Response, 0, len(list))
	for i := range list {
		rates = append(rates, &list[i])
	}

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		for i := range rates {
			if rates[i].ID == cursor.ID {
				rates = rates[i+1:]
				break
			}
		}
	}
	if len(rates) > page.PageSize+1 {
		rates = rates[:page.PageSize+1]
	}

	pageInfo := pagination.BuildCursorPageInfo(rates, int32(page.PageSize), func(r *ratedomain.Response) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        r.ID,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
		return token
	})
	if pageInfo.HasMore {
		rates = rates[:page.PageSize]
	}

	c.JSON(http.StatusOK, gin.H{"data": listRatesResponse{
		Rates:    rates,
		PageInfo: pageInfo,
	}})
}

func (s *Server) CreateRate(c *gin.Context) {
	var req ratedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rateSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetRate(c *gin.Context) {
	resp, err := s.rateSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateRate(c *gin.Context) {
	var req ratedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.rateSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// DisableRate soft-disables a rate. Rates are never deleted so the
// audit trail of past calculations keeps its inputs resolvable.
func (s *Server) DisableRate(c *gin.Context) {
	resp, err := s.rateSvc.Disable(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
