package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"backoffice/internal/database"
)

var errInvalidPagination = errors.New("invalid pagination params")

// listOptions applies page/limit only when both are given.
func listOptions(c *gin.Context) (database.ListOptions, error) {
	pageStr := c.Query("page")
	limitStr := c.Query("limit")
	if pageStr == "" && limitStr == "" {
		return database.ListOptions{}, nil
	}
	if pageStr == "" || limitStr == "" {
		return database.ListOptions{}, errInvalidPagination
	}

	page, limit, err := parsePaginationParams(pageStr, limitStr)
	if err != nil {
		return database.ListOptions{}, err
	}
	return database.ListOptions{Skip: (page - 1) * limit, Limit: limit}, nil
}

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page, err := strconv.ParseInt(pageStr, 10, 64)
	if err != nil || page < 1 {
		return 0, 0, errInvalidPagination
	}

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit < 1 || limit > 500 {
		return 0, 0, errInvalidPagination
	}

	return page, limit, nil
}
