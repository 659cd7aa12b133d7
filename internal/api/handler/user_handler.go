package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/api/metrics"
	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/ports"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	service ports.AccountService
}

func NewUserHandler(service ports.AccountService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users. The email and name query parameters switch it to
// a lookup or a search; email wins when both are present.
//
// @Summary      List, search or look up users
// @Description  ADMIN sees every user, USER sees only itself. With ?email= returns one user, with ?name= a case-insensitive substring match.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  false  "Exact email lookup"
// @Param        name   query     string  false  "Name substring search"
// @Success      200    {array}   userResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	params := c.QueryParams()
	switch {
	case params.Has("email"):
		return h.getByEmail(c, params.Get("email"))
	case params.Has("name"):
		return h.searchByName(c, params.Get("name"))
	}

	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	accounts, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(accounts))
}

func (h *UserHandler) getByEmail(c echo.Context, email string) error {
	account, err := h.service.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(account))
}

func (h *UserHandler) searchByName(c echo.Context, name string) error {
	accounts, err := h.service.SearchByName(c.Request().Context(), name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(accounts))
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	account, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(account))
}

// Create handles POST /users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidBody
	}
	email, err := decodeText(req.Email)
	if err != nil {
		return err
	}
	password, err := decodeText(req.Password)
	if err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil || email.falsy || password.falsy {
		return domain.ErrCreateFieldsRequired
	}

	// Email is checked before password, so a bad email wins over a
	// non-string password.
	if !email.isString {
		return domain.ErrEmailRequired
	}
	if !password.isString {
		if err := domain.ValidateEmail(email.value); err != nil {
			return err
		}
		return domain.ErrPasswordRequired
	}

	age, err := decodeAge(req.Age)
	if err != nil {
		return err
	}

	account, err := h.service.Create(c.Request().Context(), ports.CreateAccountInput{
		Name:     req.Name,
		Email:    email.value,
		Age:      age,
		Password: password.value,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	metrics.AccountMutationsTotal.WithLabelValues("create").Inc()

	c.Response().Header().Set(echo.HeaderLocation, "/users/"+account.ID)
	return c.JSON(http.StatusCreated, toUserResponse(account))
}

// Update handles PUT /users/:id. Only the supplied fields change.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidBody
	}

	in := ports.UpdateAccountInput{
		Name: req.Name,
		Role: req.Role,
	}

	email, err := decodeText(req.Email)
	if err != nil {
		return err
	}
	if email.set {
		if !email.isString {
			return domain.ErrEmailRequired
		}
		in.Email = &email.value
	}

	password, err := decodeText(req.Password)
	if err != nil {
		return err
	}
	if password.set {
		if !password.isString {
			return domain.ErrPasswordRequired
		}
		in.Password = &password.value
	}
	if req.Age != nil {
		age, err := decodeAge(req.Age)
		if err != nil {
			return err
		}
		in.Age = age
		in.AgeSet = true
	}

	account, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), in)
	if err != nil {
		return err
	}
	metrics.AccountMutationsTotal.WithLabelValues("update").Inc()

	return c.JSON(http.StatusOK, toUserResponse(account))
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	metrics.AccountMutationsTotal.WithLabelValues("delete").Inc()

	return c.NoContent(http.StatusNoContent)
}
