package company

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// NewHandlerWithRedis enables idempotent create: repeated requests with the
// same Idempotency-Key replay the cached response.
func NewHandlerWithRedis(s Service, rdb *redis.Client) *Handler {
	return &Handler{service: s, rdb: rdb}
}

func actorFrom(c *gin.Context) Actor {
	u := middleware.MustCurrentUser(c)
	return Actor{ID: u.ID, Admin: u.IsSuperadmin}
}

func (h *Handler) Create(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		response.Failure(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, "Company created successfully", resp)
}

func (h *Handler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Company fetched successfully", resp)
}

func (h *Handler) Search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, page, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.List(c, http.StatusOK, "Companies fetched successfully", page, resp)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Company updated successfully", resp)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Company deleted successfully", nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req CompanyLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Company login successful", resp)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangeCompanyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Company password changed successfully", nil)
}
