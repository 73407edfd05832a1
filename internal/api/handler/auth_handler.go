package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tell-platform/complaint-system/internal/api/response"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup validates the form, mails an activation link and returns the
// signup token. Nothing is persisted.
//
// @Summary      Start a citizen registration
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration form"
// @Success      200   {object}  response.Envelope{result=signupResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      422   {object}  response.Envelope
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Contact:   req.Contact,
		Password:  req.Password,
		Address:   req.Address.toDomain(),
	})
	if err != nil {
		return err
	}

	return response.OKWithNotice(c, http.StatusOK, signupResponse{SignupToken: res.SignupToken}, "Signup successfully", res.NotifyErr)
}

// Activate persists the account carried by a signup token. The token is read
// from the JSON body on POST and from the query string on GET, which is the
// form used by the mailed link.
//
// @Summary      Activate a citizen account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body         body      activateRequest  false  "Signup token (POST)"
// @Param        signupToken  query     string           false  "Signup token (GET)"
// @Success      201   {object}  response.Envelope{result=authResponse}
// @Failure      401   {object}  response.Envelope
// @Failure      422   {object}  response.Envelope
// @Router       /auth/activate [post]
// @Router       /auth/activate [get]
func (h *AuthHandler) Activate(c echo.Context) error {
	var req activateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Activate(c.Request().Context(), req.SignupToken)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, toAuthResponse(res), "You have been registered successfully")
}

// SignIn authenticates a citizen.
//
// @Summary      Citizen sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Credentials"
// @Success      200   {object}  response.Envelope{result=authResponse}
// @Failure      401   {object}  response.Envelope
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signinRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	res, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, toAuthResponse(res), "Signin success")
}

// Refresh exchanges a refresh token for a new token pair.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  response.Envelope{result=authResponse}
// @Failure      401   {object}  response.Envelope
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Refresh(c.Request().Context(), req.RefToken)
	if err != nil {
		return response.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
	}
	return response.OK(c, http.StatusOK, toAuthResponse(res), "Tokens refreshed")
}

// CreateAuthority registers an authority account. Admin only.
//
// @Summary      Create an authority
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAuthorityRequest  true  "Authority details"
// @Success      201   {object}  response.Envelope{result=domain.Authority}
// @Failure      400   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      422   {object}  response.Envelope
// @Router       /auth/pro/new [post]
func (h *AuthHandler) CreateAuthority(c echo.Context) error {
	var req createAuthorityRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	res, err := h.authService.CreateAuthority(c.Request().Context(), ports.CreateAuthorityInput{
		AuthorityName: req.AuthorityName,
		Username:      req.Username,
		Email:         req.Email,
		Contact:       req.Contact,
		District:      req.District,
		Password:      req.Password,
	})
	if err != nil {
		return err
	}
	return response.OKWithNotice(c, http.StatusCreated, res.Authority, "Creation success", res.NotifyErr)
}

// AuthoritySignIn authenticates an authority or admin by username.
//
// @Summary      Authority sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authoritySigninRequest  true  "Credentials"
// @Success      200   {object}  response.Envelope{result=authResponse}
// @Failure      401   {object}  response.Envelope
// @Router       /auth/pro/signin [post]
func (h *AuthHandler) AuthoritySignIn(c echo.Context) error {
	var req authoritySigninRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	res, err := h.authService.AuthoritySignIn(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, toAuthResponse(res), "Signin success")
}

// ResetPassword replaces the caller's own password.
//
// @Summary      Reset own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      resetPasswordRequest  true  "New password"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Router       /auth/password/reset [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req resetPasswordRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), id, req.Password); err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, nil, "Password reset success")
}
