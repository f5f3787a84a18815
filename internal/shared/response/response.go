package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
)

// Envelope is the wire shape of every response. List endpoints embed the
// pagination fields alongside data.
type Envelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

type ListEnvelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"total_pages"`
	Data       any    `json:"data"`
}

// Page describes one page of a filtered result set. Total counts the full
// filtered set before pagination.
type Page struct {
	Page    int
	PerPage int
	Total   int64
}

func (p Page) TotalPages() int {
	if p.PerPage <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

func Success(c *gin.Context, status int, message string, data any) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Envelope{
		Status:     "success",
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

func List(c *gin.Context, status int, message string, page Page, data any) {
	c.JSON(status, ListEnvelope{
		Status:     "success",
		StatusCode: status,
		Message:    message,
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages(),
		Data:       data,
	})
}

// Failure renders any error as the standard failure envelope. AppErrors keep
// their status and message; everything else collapses to a generic 500 so raw
// storage-engine text never reaches the client.
func Failure(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.ErrInternal
	}
	c.JSON(appErr.HTTPStatus, Envelope{
		Status:     "failure",
		StatusCode: appErr.HTTPStatus,
		Message:    appErr.Message,
		Data:       gin.H{"code": appErr.Code},
	})
}

// AbortFailure is Failure for middleware, stopping the handler chain.
func AbortFailure(c *gin.Context, err error) {
	Failure(c, err)
	c.Abort()
}

// Auth wraps a success payload with the access token the way the auth
// endpoints expose it.
func Auth(c *gin.Context, status int, message, accessToken string, data gin.H) {
	payload := gin.H{"access_token": accessToken}
	for k, v := range data {
		payload[k] = v
	}
	c.JSON(status, Envelope{
		Status:     "success",
		StatusCode: status,
		Message:    message,
		Data:       payload,
	})
}
