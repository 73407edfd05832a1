package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tell-platform/complaint-system/internal/api/response"
	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

// ProfileHandler serves citizen and authority profile reads and edits.
type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type updateUserRequest struct {
	UserID     string          `json:"userId"`
	FirstName  *string         `json:"firstName"  validate:"omitnil,notblank"`
	LastName   *string         `json:"lastName"`
	Email      *string         `json:"email"      validate:"omitnil,email"`
	Contact    *string         `json:"contact"`
	Gender     *string         `json:"gender"`
	Birthdate  *time.Time      `json:"birthdate"`
	ProfImg    *string         `json:"profImg"`
	Occupation *string         `json:"occupation"`
	Address    *addressRequest `json:"address"`
}

func (r updateUserRequest) toPatch() domain.UserPatch {
	p := domain.UserPatch{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Contact:    r.Contact,
		Gender:     r.Gender,
		Birthdate:  r.Birthdate,
		ProfImg:    r.ProfImg,
		Occupation: r.Occupation,
	}
	if r.Address != nil {
		addr := r.Address.toDomain()
		p.Address = &addr
	}
	return p
}

type updateAuthorityRequest struct {
	UserID        string  `json:"userId"`
	AuthorityName *string `json:"authorityName" validate:"omitnil,notblank"`
	Email         *string `json:"email"         validate:"omitnil,email"`
	Contact       *string `json:"contact"`
	District      *string `json:"district"      validate:"omitnil,notblank"`
}

// GetUser returns the caller's citizen profile.
//
// @Summary      Read own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Caller id"
// @Success      200     {object}  response.Envelope{result=domain.User}
// @Failure      403     {object}  response.Envelope
// @Failure      404     {object}  response.Envelope
// @Router       /profile/my/{userId} [get]
func (h *ProfileHandler) GetUser(c echo.Context) error {
	user, err := h.profiles.GetUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, user, "profile read success")
}

// UpdateUser merges the whitelisted fields into the caller's profile.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  response.Envelope{result=domain.User}
// @Failure      400   {object}  response.Envelope
// @Failure      422   {object}  response.Envelope
// @Router       /profile/my/update [put]
func (h *ProfileHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.profiles.UpdateUser(c.Request().Context(), req.UserID, req.toPatch())
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, user, "Update success")
}

// DeleteUser removes the caller's own account.
//
// @Summary      Delete own account
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Caller id"
// @Success      200     {object}  response.Envelope
// @Failure      404     {object}  response.Envelope
// @Router       /profile/my/{userId} [delete]
func (h *ProfileHandler) DeleteUser(c echo.Context) error {
	if err := h.profiles.DeleteUser(c.Request().Context(), c.Param("userId")); err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, nil, "Delete success")
}

// GetAuthority returns the calling authority's profile.
//
// @Summary      Read own authority profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Caller id"
// @Success      200     {object}  response.Envelope{result=domain.Authority}
// @Failure      403     {object}  response.Envelope
// @Router       /profile/pro/{userId} [get]
func (h *ProfileHandler) GetAuthority(c echo.Context) error {
	a, err := h.profiles.GetAuthority(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, a, "profile read success")
}

// UpdateAuthority merges the whitelisted fields into the caller's authority profile.
//
// @Summary      Update own authority profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAuthorityRequest  true  "Fields to change"
// @Success      200   {object}  response.Envelope{result=domain.Authority}
// @Failure      400   {object}  response.Envelope
// @Failure      422   {object}  response.Envelope
// @Router       /profile/pro/update [put]
func (h *ProfileHandler) UpdateAuthority(c echo.Context) error {
	var req updateAuthorityRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	a, err := h.profiles.UpdateAuthority(c.Request().Context(), req.UserID, domain.AuthorityPatch{
		AuthorityName: req.AuthorityName,
		Email:         req.Email,
		Contact:       req.Contact,
		District:      req.District,
	})
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, a, "Update success")
}

// RemoveUser deletes any citizen account. Admin only.
//
// @Summary      Delete a citizen
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        userId    path      string  true  "Admin id"
// @Param        targetId  path      string  true  "Citizen id"
// @Success      200       {object}  response.Envelope
// @Failure      403       {object}  response.Envelope
// @Failure      404       {object}  response.Envelope
// @Router       /profile/users/{userId}/{targetId} [delete]
func (h *ProfileHandler) RemoveUser(c echo.Context) error {
	if err := h.profiles.DeleteUser(c.Request().Context(), c.Param("targetId")); err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, nil, "Delete success")
}

// RemoveAuthority deletes any authority account. Admin only.
//
// @Summary      Delete an authority
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        userId    path      string  true  "Admin id"
// @Param        targetId  path      string  true  "Authority id"
// @Success      200       {object}  response.Envelope
// @Failure      403       {object}  response.Envelope
// @Failure      404       {object}  response.Envelope
// @Router       /profile/authorities/{userId}/{targetId} [delete]
func (h *ProfileHandler) RemoveAuthority(c echo.Context) error {
	if err := h.profiles.DeleteAuthority(c.Request().Context(), c.Param("targetId")); err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, nil, "Delete success")
}
