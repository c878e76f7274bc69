package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type PageParams struct {
	Page  int
	Limit int
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageParamsFrom reads ?page= and ?limit= with safe defaults. Out-of-range
// values are clamped rather than rejected.
func PageParamsFrom(ctx *gin.Context) PageParams {
	page, err := strconv.Atoi(ctx.Query("page"))

	if err != nil || page < 1 {
		page = defaultPage
	}

	limit, err := strconv.Atoi(ctx.Query("limit"))

	if err != nil || limit < 1 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return PageParams{Page: page, Limit: limit}
}

type PageMeta struct {
	TotalItems   int  `json:"totalItems"`
	TotalPages   int  `json:"totalPages"`
	CurrentPage  int  `json:"currentPage"`
	PageSize     int  `json:"pageSize"`
	HasNext      bool `json:"hasNext"`
	HasPrevious  bool `json:"hasPrevious"`
	NextPage     *int `json:"nextPage"`
	PreviousPage *int `json:"previousPage"`
}

func NewPageMeta(total int, params PageParams) PageMeta {
	totalPages := (total + params.Limit - 1) / params.Limit

	meta := PageMeta{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: params.Page,
		PageSize:    params.Limit,
		HasNext:     params.Page < totalPages,
		HasPrevious: params.Page > 1,
	}

	if meta.HasNext {
		next := params.Page + 1
		meta.NextPage = &next
	}

	if meta.HasPrevious {
		prev := params.Page - 1
		meta.PreviousPage = &prev
	}

	return meta
}
