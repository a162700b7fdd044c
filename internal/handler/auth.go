package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/model"
	"github.com/iliyamo/timesheet-reporting/internal/service"
)

// Sessions is the account lifecycle used by AuthHandler.
type Sessions interface {
	SignUp(ctx context.Context, in service.SignUpInput) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context, id service.Identity) error
	SignOutAll(ctx context.Context, id service.Identity) error
	CurrentUser(id service.Identity) model.PublicUser
}

// AuthHandler serves /auth.
type AuthHandler struct {
	Sessions Sessions
}

func NewAuthHandler(s Sessions) *AuthHandler { return &AuthHandler{Sessions: s} }

// ----- DTOs -----

type signUpReq struct {
	Name     string `json:"name" validate:"required,notblank,letters"`
	Email    string `json:"email" validate:"required,notblank,email"`
	Password string `json:"password" validate:"required,min=8,max=20"`
}

type signInReq struct {
	Email    string `json:"email" validate:"required,notblank,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResp struct {
	SessionToken string `json:"sessionToken"`
}

type messageResp struct {
	Message string `json:"message"`
}

// SignUp: create a default-role account and return its first session token.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	token, err := h.Sessions.SignUp(ctx, service.SignUpInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sessionResp{SessionToken: token})
}

// SignIn: verify credentials and open a new session.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	token, err := h.Sessions.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sessionResp{SessionToken: token})
}

// SignOut: delete the session the request was made with.
func (h *AuthHandler) SignOut(c echo.Context, id service.Identity) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Sessions.SignOut(ctx, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResp{Message: "Successfully signed out."})
}

// SignOutAll: delete every session of the current user.
func (h *AuthHandler) SignOutAll(c echo.Context, id service.Identity) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Sessions.SignOutAll(ctx, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResp{Message: "Successfully signed out everywhere."})
}

// CurrentUser: the authenticated user without the password hash.
func (h *AuthHandler) CurrentUser(c echo.Context, id service.Identity) error {
	return c.JSON(http.StatusOK, h.Sessions.CurrentUser(id))
}

// bindAndValidate decodes the JSON body into req and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperr.Validation("Invalid request body.")
	}
	return c.Validate(req)
}
