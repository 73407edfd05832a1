package handler

import (
	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

type addressRequest struct {
	Line     string `json:"line"`
	City     string `json:"city"`
	Postal   string `json:"postal"`
	District string `json:"district"`
}

func (a addressRequest) toDomain() domain.Address {
	return domain.Address{Line: a.Line, City: a.City, Postal: a.Postal, District: a.District}
}

type signupRequest struct {
	FirstName string         `json:"firstName" validate:"notblank"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"     validate:"required,email"`
	Contact   string         `json:"contact"`
	Password  string         `json:"password"  validate:"required,min=6"`
	Address   addressRequest `json:"address"`
}

type signupResponse struct {
	SignupToken string `json:"signupToken"`
}

type activateRequest struct {
	SignupToken string `json:"signupToken" query:"signupToken" validate:"required"`
}

type signinRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefToken string `json:"refToken" validate:"required"`
}

type createAuthorityRequest struct {
	UserID        string `json:"userId"`
	AuthorityName string `json:"authorityName" validate:"notblank"`
	Username      string `json:"username"      validate:"notblank"`
	Email         string `json:"email"         validate:"required,email"`
	Contact       string `json:"contact"`
	District      string `json:"district"      validate:"notblank"`
	Password      string `json:"password"      validate:"required,min=6"`
}

type authoritySigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type resetPasswordRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password" validate:"required,min=6"`
}

// authResponse is the token pair handed out on every successful sign-in.
type authResponse struct {
	ID        string      `json:"id"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name,omitempty"`
	SignToken string      `json:"signToken"`
	RefToken  string      `json:"refToken"`
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{ID: r.ID, Role: r.Role, Name: r.Name, SignToken: r.SignToken, RefToken: r.RefToken}
}
