package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityLevel is a closed set of self-reported exercise levels.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "SED"
	ActivityLightlyActive    ActivityLevel = "LAC"
	ActivityModeratelyActive ActivityLevel = "MAC"
	ActivityVeryActive       ActivityLevel = "VAC"
	ActivityExtraActive      ActivityLevel = "EAC"
)

// Valid reports whether the value is one of the known activity codes.
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive,
		ActivityVeryActive, ActivityExtraActive:
		return true
	}
	return false
}

// UnitPreference selects the measurement system shown to the user.
type UnitPreference string

const (
	UnitMetric   UnitPreference = "MET"
	UnitImperial UnitPreference = "IMP"
)

// Valid reports whether the value is one of the known unit codes.
func (u UnitPreference) Valid() bool {
	return u == UnitMetric || u == UnitImperial
}

// User represents an account holder.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string `json:"email" gorm:"size:255"`
	PasswordHash string `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string `json:"first_name" gorm:"size:150"`
	LastName     string `json:"last_name" gorm:"size:150"`
	IsStaff      bool   `json:"is_staff" gorm:"default:false"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	DateJoined time.Time  `json:"date_joined" gorm:"autoCreateTime"`
	LastLogin  *time.Time `json:"last_login"`

	DOB            *Date               `json:"dob" gorm:"column:dob;type:date"`
	Height         decimal.NullDecimal `json:"height" gorm:"type:decimal(5,2)"`
	CurrWeight     decimal.NullDecimal `json:"curr_weight" gorm:"type:decimal(5,2)"`
	ActivityLevel  *ActivityLevel      `json:"activity_level" gorm:"size:3"`
	UnitPreference UnitPreference      `json:"unit_preference" gorm:"size:3;default:'MET';not null"`
}

// FullName joins first and last name, falling back to the username when
// both are empty.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}
