package auth

import "github.com/gin-gonic/gin"

// CurrentUser = principal yang lagi login, diambil dari token
type CurrentUser struct {
	ID       string
	Username string
}

const ContextUserKey = "currentUser"

// Helper untuk ambil current user di handler
func GetCurrentUser(c *gin.Context) (CurrentUser, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return CurrentUser{}, false
	}
	cu, ok := v.(CurrentUser)
	return cu, ok
}
