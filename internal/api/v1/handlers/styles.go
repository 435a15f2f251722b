package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opencaption/internal/api/v1/dto"
	"opencaption/internal/app/style"
)

// ListStyles handles GET /api/v1/styles
func ListStyles(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StylesResponse{Styles: style.All()})
}
