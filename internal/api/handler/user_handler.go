package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ananses3m/shop-api/internal/api/metrics"
	"github.com/ananses3m/shop-api/internal/api/middleware"
	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

type UserHandler struct {
	auth   ports.AuthService
	users  ports.UserService
	resets ports.PasswordResetService
}

func NewUserHandler(auth ports.AuthService, users ports.UserService, resets ports.PasswordResetService) *UserHandler {
	return &UserHandler{auth: auth, users: users, resets: resets}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
}

type adminUpdateUserRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	IsAdmin *bool  `json:"isAdmin"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Password string `json:"password" validate:"required"`
	ID       string `json:"id"`
}

type userResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token,omitempty"`
}

type resetResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func newUserResponse(u *domain.User, token string) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, Token: token}
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, newUserResponse(user, token))
}

// Register creates a new customer account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.Inc()

	return c.JSON(http.StatusCreated, newUserResponse(user, token))
}

// GetProfile returns the authenticated user's profile.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	current, err := mustUser(c)
	if err != nil {
		return err
	}

	user, err := h.users.Profile(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(user, ""))
}

// UpdateProfile changes the authenticated user's name, email or password.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	current, err := mustUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.users.UpdateProfile(c.Request().Context(), current.ID, ports.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(user, token))
}

// ListUsers returns every account.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser returns a single account.
//
// @Summary      Get user by id
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser changes an account's name, email or admin flag.
//
// @Summary      Update user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "User ID"
// @Param        body  body      adminUpdateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req adminUpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), c.Param("id"), ports.AdminUpdateUserInput{
		Name:    req.Name,
		Email:   req.Email,
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(user, ""))
}

// DeleteUser removes an account. Orders and reviews of the user are kept.
//
// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted"})
}

// RequestPasswordReset mails a reset link for the given address.
//
// @Summary      Request a password reset
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      resetRequest  true  "Account email"
// @Success      200   {object}  resetResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /users/resetpassword [post]
func (h *UserHandler) RequestPasswordReset(c echo.Context) error {
	var req resetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.resets.Request(c.Request().Context(), req.Email)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("request", "failure").Inc()
		if errors.Is(err, domain.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no account with this email address")
		}
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("request", "success").Inc()

	return c.JSON(http.StatusOK, resetResponse{
		Message: "Reset link sent to " + req.Email,
		Token:   token,
	})
}

// ConfirmPasswordReset sets a new password for the user named in the path.
// The route is guarded by the reset-token middleware.
//
// @Summary      Confirm a password reset
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "User ID"
// @Param        body  body      resetConfirmRequest  true  "New password"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /users/reset/{id} [put]
func (h *UserHandler) ConfirmPasswordReset(c echo.Context) error {
	target, err := mustUser(c)
	if err != nil {
		return err
	}

	var req resetConfirmRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ID != "" && req.ID != target.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "user id does not match the reset link")
	}

	user, token, err := h.resets.Confirm(c.Request().Context(), target, req.Password)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("confirm", "failure").Inc()
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("confirm", "success").Inc()

	return c.JSON(http.StatusOK, newUserResponse(user, token))
}

func mustUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authorized, no token")
	}
	return user, nil
}
