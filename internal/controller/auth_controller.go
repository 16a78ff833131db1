package controller

import (
	"net/http"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth  *service.AuthService
	Users *service.UserService
	Cfg   *config.Config
}

func NewAuthController(auth *service.AuthService, users *service.UserService, cfg *config.Config) *AuthController {
	return &AuthController{Auth: auth, Users: users, Cfg: cfg}
}

type registerRequest struct {
	Username string         `json:"username" binding:"required,min=3,max=30"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6"`
	FullName string         `json:"fullName" binding:"required"`
	Role     model.UserRole `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates the account and signs the caller in immediately, so
// the response carries the same credentials a login would.
func (ctl *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid registration data: "+err.Error())
		return
	}

	if req.Role == model.Admin {
		util.BadRequest(c, "Cannot self-register as admin")
		return
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	}

	if err := ctl.Auth.Register(user); err != nil {
		util.HandleServiceError(c, err)
		return
	}

	sessionID, token, err := ctl.Auth.IssueCredentials(user)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	ctl.setAuthCookies(c, sessionID, token)
	util.Created(c, "Registration successful", gin.H{
		"user":      user.PublicProfile(),
		"token":     token,
		"sessionId": sessionID,
	})
}

func (ctl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Email and password are required")
		return
	}

	user, err := ctl.Auth.Login(req.Email, req.Password)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	sessionID, token, err := ctl.Auth.IssueCredentials(user)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	ctl.setAuthCookies(c, sessionID, token)
	util.SuccessMessage(c, "Login successful", gin.H{
		"user":      user.PublicProfile(),
		"token":     token,
		"sessionId": sessionID,
	})
}

// Logout invalidates the server-side session and clears both cookies.
// It succeeds even without a valid session, so stale clients can always
// reset their state.
func (ctl *AuthController) Logout(c *gin.Context) {
	sessionID := c.GetHeader(ctl.Cfg.Session.HeaderName)
	if sessionID == "" {
		sessionID, _ = c.Cookie(ctl.Cfg.Session.CookieName)
	}
	ctl.Auth.Logout(sessionID)

	c.SetCookie(ctl.Cfg.Session.CookieName, "", -1, "/", "", false, false)
	c.SetCookie("token", "", -1, "/", "", false, true)

	util.SuccessMessage(c, "Logged out successfully", nil)
}

// Check reports authentication state without ever failing: anonymous
// callers get isAuthenticated false with a 200, not a 401.
func (ctl *AuthController) Check(c *gin.Context) {
	id := middleware.GetIdentity(c)
	if id == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "isAuthenticated": false, "user": nil})
		return
	}

	user, err := ctl.Auth.GetUser(id.UserID)
	if err != nil {
		// A credential pointing at a deleted account counts as anonymous.
		c.JSON(http.StatusOK, gin.H{"success": true, "isAuthenticated": false, "user": nil})
		return
	}

	util.Success(c, gin.H{"isAuthenticated": true, "user": user.PublicProfile()})
}

func (ctl *AuthController) GetProfile(c *gin.Context) {
	id := middleware.GetIdentity(c)

	user, err := ctl.Auth.GetUser(id.UserID)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.Success(c, gin.H{"user": user.PublicProfile()})
}

func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	id := middleware.GetIdentity(c)

	var update service.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		util.BadRequest(c, "Invalid profile data")
		return
	}

	user, err := ctl.Users.UpdateProfile(id.UserID, update)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.SuccessMessage(c, "Profile updated", gin.H{"user": user.PublicProfile()})
}

func (ctl *AuthController) UploadAvatar(c *gin.Context) {
	id := middleware.GetIdentity(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		util.BadRequest(c, "Avatar file is required")
		return
	}

	url, err := ctl.Users.UploadAvatar(c, id.UserID, file)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.SuccessMessage(c, "Avatar updated", gin.H{"avatar": url})
}

func (ctl *AuthController) setAuthCookies(c *gin.Context, sessionID, token string) {
	// The session cookie stays readable by frontend scripts that mirror it
	// into the X-Session-Id header; the token cookie does not.
	c.SetCookie(ctl.Cfg.Session.CookieName, sessionID,
		int(ctl.Cfg.Session.TTL.Seconds()), "/", "", false, false)
	c.SetCookie("token", token,
		int(ctl.Cfg.JWT.ExpireTime.Seconds()), "/", "", false, true)
}
