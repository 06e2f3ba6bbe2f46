// Package dto holds the wire-format projections of the user entity: the
// registration input, the profile view and the partial profile patch.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"trackmyfood/internal/model"
)

// Profile is the user-visible, non-secret view of a user record. Field names
// match the public API contract.
type Profile struct {
	PK             uint                 `json:"pk"`
	Username       string               `json:"username"`
	Email          string               `json:"email"`
	FirstName      string               `json:"first_name"`
	LastName       string               `json:"last_name"`
	FullName       string               `json:"full_name"`
	DOB            *model.Date          `json:"dob"`
	Height         decimal.NullDecimal  `json:"height"`
	CurrWeight     decimal.NullDecimal  `json:"currWeight"`
	ActivityLevel  *model.ActivityLevel `json:"activityLevel"`
	UnitPreference model.UnitPreference `json:"unitPreference"`
	DateJoined     time.Time            `json:"date_joined"`
	LastLogin      *time.Time           `json:"last_login"`
}

// NewProfile projects a stored user onto its profile view.
func NewProfile(u *model.User) Profile {
	return Profile{
		PK:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		DOB:            u.DOB,
		Height:         u.Height,
		CurrWeight:     u.CurrWeight,
		ActivityLevel:  u.ActivityLevel,
		UnitPreference: u.UnitPreference,
		DateJoined:     u.DateJoined,
		LastLogin:      u.LastLogin,
	}
}

// NewProfileList projects a slice of users.
func NewProfileList(users []model.User) []Profile {
	profiles := make([]Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, NewProfile(&users[i]))
	}
	return profiles
}

// UserSummary is the minimal identity embedded in the login response.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewUserSummary builds the login-response identity block.
func NewUserSummary(u *model.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// RegisterRequest is the registration input. Profile fields are optional;
// enum fields are validated against the closed code sets.
type RegisterRequest struct {
	Username       string           `json:"username" validate:"required,max=150"`
	Email          string           `json:"email" validate:"required,email"`
	Password       string           `json:"password" validate:"required,min=6"`
	FirstName      string           `json:"first_name" validate:"max=30"`
	LastName       string           `json:"last_name" validate:"max=30"`
	DOB            *model.Date      `json:"dob"`
	Height         *decimal.Decimal `json:"height"`
	CurrWeight     *decimal.Decimal `json:"currWeight"`
	ActivityLevel  string           `json:"activityLevel" validate:"omitempty,oneof=SED LAC MAC VAC EAC"`
	UnitPreference string           `json:"unitPreference" validate:"omitempty,oneof=MET IMP"`
}

// ToUser builds a new user record from the registration input. The password
// hash is left for the service to fill in.
func (r *RegisterRequest) ToUser() *model.User {
	u := &model.User{
		Username:       r.Username,
		Email:          r.Email,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DOB:            r.DOB,
		IsActive:       true,
		UnitPreference: model.UnitMetric,
	}
	if r.Height != nil {
		u.Height = decimal.NewNullDecimal(*r.Height)
	}
	if r.CurrWeight != nil {
		u.CurrWeight = decimal.NewNullDecimal(*r.CurrWeight)
	}
	if r.ActivityLevel != "" {
		level := model.ActivityLevel(r.ActivityLevel)
		u.ActivityLevel = &level
	}
	if r.UnitPreference != "" {
		u.UnitPreference = model.UnitPreference(r.UnitPreference)
	}
	return u
}

// ProfileUpdate is a partial profile patch. Nil fields are left unchanged
// when merged onto the stored record.
type ProfileUpdate struct {
	FirstName      *string          `json:"first_name" validate:"omitempty,max=30"`
	LastName       *string          `json:"last_name" validate:"omitempty,max=30"`
	Email          *string          `json:"email" validate:"omitempty,email"`
	DOB            *model.Date      `json:"dob"`
	Height         *decimal.Decimal `json:"height"`
	CurrWeight     *decimal.Decimal `json:"currWeight"`
	ActivityLevel  *string          `json:"activityLevel" validate:"omitempty,oneof=SED LAC MAC VAC EAC"`
	UnitPreference *string          `json:"unitPreference" validate:"omitempty,oneof=MET IMP"`
}

// Apply merges the patch onto a user record.
func (p *ProfileUpdate) Apply(u *model.User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.DOB != nil {
		u.DOB = p.DOB
	}
	if p.Height != nil {
		u.Height = decimal.NewNullDecimal(*p.Height)
	}
	if p.CurrWeight != nil {
		u.CurrWeight = decimal.NewNullDecimal(*p.CurrWeight)
	}
	if p.ActivityLevel != nil {
		level := model.ActivityLevel(*p.ActivityLevel)
		u.ActivityLevel = &level
	}
	if p.UnitPreference != nil {
		u.UnitPreference = model.UnitPreference(*p.UnitPreference)
	}
}
