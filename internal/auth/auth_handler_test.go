package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRefreshCookieMaxAgeTracksTokenTTL(t *testing.T) {
	t.Setenv("REFRESH_TOKEN_EXPIRE_MINUTES", "90")
	assert.Equal(t, 90*60, refreshCookieMaxAge())

	t.Setenv("REFRESH_TOKEN_EXPIRE_MINUTES", "")
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), refreshCookieMaxAge())
}

func TestSetRefreshCookieAttributes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	setRefreshCookie(c, "tok-1", refreshCookieMaxAge())

	res := rec.Result()
	defer res.Body.Close()
	cookies := res.Cookies()
	if assert.Len(t, cookies, 1) {
		cookie := cookies[0]
		assert.Equal(t, "refresh_token", cookie.Name)
		assert.Equal(t, "tok-1", cookie.Value)
		assert.Equal(t, int(refreshTTL().Seconds()), cookie.MaxAge)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	}
}
