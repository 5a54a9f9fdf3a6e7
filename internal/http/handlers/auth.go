package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/http/flash"
	"silicon.com/app/internal/http/middleware"
	"silicon.com/app/internal/http/render"
	"silicon.com/app/internal/http/validation"
	"silicon.com/app/internal/shared/apperr"
	"silicon.com/app/pkg/view"
)

type AuthAPI interface {
	Login(ctx context.Context, in backend.LoginInput) (backend.AuthResult, error)
	Signup(ctx context.Context, in backend.SignupInput) (backend.AuthResult, error)
}

type loginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	ReturnTo string `json:"return_to" form:"return_to"`
}

type signupInput struct {
	Name     string `json:"name" form:"name" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Phone    string `json:"phone" form:"phone" validate:"omitempty,max=20"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// AuthHandler signs users in against the backend and keeps the token the
// backend issues in a cookie. The token is verified before it is stored.
type AuthHandler struct {
	api   AuthAPI
	token middleware.TokenCfg
	flash *flash.Codec
}

func NewAuthHandler(api AuthAPI, token middleware.TokenCfg, f *flash.Codec) *AuthHandler {
	return &AuthHandler{api: api, token: token, flash: f}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBind(&in); err != nil {
		middleware.Fail(c, validation.BindError(err, "Please enter your email and password."))
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Check(in, "Please enter your email and password."); err != nil {
		middleware.Fail(c, err)
		return
	}

	res, err := h.api.Login(c.Request.Context(), backend.LoginInput{Email: in.Email, Password: in.Password})
	if err != nil {
		middleware.Fail(c, backend.AsAppError(err))
		return
	}
	h.start(c, res, normalizeReturnTo(in.ReturnTo), "Signed in.")
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var in signupInput
	if err := c.ShouldBind(&in); err != nil {
		middleware.Fail(c, validation.BindError(err, "Please check the sign-up form."))
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Check(in, "Please check the sign-up form."); err != nil {
		middleware.Fail(c, err)
		return
	}

	res, err := h.api.Signup(c.Request.Context(), backend.SignupInput{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: in.Password,
	})
	if err != nil {
		middleware.Fail(c, backend.AsAppError(err))
		return
	}
	h.start(c, res, "", "Account created.")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c, h.token)
	middleware.SetFlashCookie(c, h.flash, view.Info("Signed out."))
	render.Message(c, http.StatusOK, "Signed out.")
}

func (h *AuthHandler) start(c *gin.Context, res backend.AuthResult, returnTo, msg string) {
	u, err := middleware.ParseToken(h.token.Secret, res.Token)
	if err != nil {
		middleware.Fail(c, apperr.UpstreamErr(http.StatusBadGateway, "The sign-in service returned an invalid token.", err))
		return
	}
	middleware.SetTokenCookie(c, h.token, u)
	middleware.SetFlashCookie(c, h.flash, view.Success(msg))

	dest := returnTo
	if dest == "" {
		dest = "/"
		if u.IsAdmin() {
			dest = "/admin"
		}
	}
	render.OK(c, http.StatusOK, gin.H{
		"user":     res.User,
		"role":     u.Role,
		"redirect": dest,
	})
}

// Flash hands the pending one-shot message to the dashboard.
func Flash(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "flash": middleware.GetFlash(c)})
}
