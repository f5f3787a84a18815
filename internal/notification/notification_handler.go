package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/regtech-horizon/regtech-backend/internal/auth"
	autherrors "github.com/regtech-horizon/regtech-backend/internal/auth/errors"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from another origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	service Service
	hub     *Hub
	logger  *zap.Logger
}

func NewHandler(s Service, hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{service: s, hub: hub, logger: logger.Named("notification.handler")}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Notification created successfully", resp)
}

func (h *Handler) ListMine(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ListForUser(c.Request.Context(), c.GetString("user_id"), q.Limit)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Notifications fetched successfully", resp)
}

func (h *Handler) ListForCompany(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ListForCompany(c.Request.Context(), c.Param("company_id"), q.Limit)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Notifications fetched successfully", resp)
}

func (h *Handler) MarkRead(c *gin.Context) {
	err := h.service.MarkRead(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Notification marked as read", nil)
}

// Connect upgrades to a websocket after verifying the token passed as a
// query parameter; the socket identity must match the requested user id.
func (h *Handler) Connect(c *gin.Context) {
	userID, err := auth.VerifyToken(c.Query("token"), auth.TokenTypeAccess)
	if err != nil {
		response.AbortFailure(c, autherrors.ErrInvalidToken)
		return
	}
	if requested := c.Param("user_id"); requested != userID {
		response.AbortFailure(c, apperror.ErrForbidden)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Register(userID, conn)

	// Drain incoming frames so pings and close frames are processed.
	go func() {
		defer func() {
			h.hub.Unregister(userID, conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
