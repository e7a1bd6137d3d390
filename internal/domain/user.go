package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type Role int32

const (
	RoleAdministrator Role = 0
	RoleUser          Role = 6
	RoleTrekkie       Role = 9
	RoleUnknown       Role = 64
)

var roles = newEnumTable("role", map[Role]string{
	RoleAdministrator: "administrator",
	RoleUser:          "user",
	RoleTrekkie:       "trekkie",
	RoleUnknown:       "unknown",
})

// RoleFromInt maps stored role codes; anything unrecognised is RoleUnknown.
func RoleFromInt(v int32) Role {
	r := Role(v)
	if !roles.valid(r) {
		return RoleUnknown
	}
	return r
}

func (r Role) String() string {
	if name, ok := roles.name(r); ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int32(r))
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !roles.valid(r) {
		return nil, fmt.Errorf("invalid role %d", int32(r))
	}
	return encodeCode(r), nil
}

func (r *Role) UnmarshalJSON(data []byte) error {
	v, err := roles.decode(data)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// User is the users row. Password holds the stored hash and never leaves the process
// as JSON.
type User struct {
	ID           uuid.UUID `db:"id"`
	Name         *string   `db:"name"`
	Email        *string   `db:"email"`
	Password     string    `db:"password"`
	Role         int32     `db:"role"`
	EmailSetting *int32    `db:"email_setting"`
	Deactivated  bool      `db:"deactivated"`
}

type userJSON struct {
	ID           uuid.UUID `json:"id"`
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	Role         int32     `json:"role"`
	EmailSetting *int32    `json:"email_setting"`
	Deactivated  bool      `json:"deactivated"`
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		EmailSetting: u.EmailSetting,
		Deactivated:  u.Deactivated,
	})
}

func (u User) IsAdmin() bool {
	return RoleFromInt(u.Role) == RoleAdministrator
}

// MinimalUser is the anonymous account a trekkie run is registered with.
type MinimalUser struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Role        int32     `json:"role" db:"role"`
	Deactivated bool      `json:"deactivated" db:"deactivated"`
}

// RegisteredUser is a user that completed registration.
type RegisteredUser struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Password     string    `json:"-" db:"password"`
	Role         int32     `json:"role" db:"role"`
	EmailSetting int32     `json:"email_setting" db:"email_setting"`
	Deactivated  bool      `json:"deactivated" db:"deactivated"`
}

func (u RegisteredUser) IsAdmin() bool {
	return RoleFromInt(u.Role) == RoleAdministrator
}

// RegisteredUserFromUser fails when name, email or email setting is missing.
func RegisteredUserFromUser(u User) (RegisteredUser, bool) {
	if u.Name == nil || u.Email == nil || u.EmailSetting == nil {
		return RegisteredUser{}, false
	}
	return RegisteredUser{
		ID:           u.ID,
		Name:         *u.Name,
		Email:        *u.Email,
		Password:     u.Password,
		Role:         u.Role,
		EmailSetting: *u.EmailSetting,
		Deactivated:  u.Deactivated,
	}, true
}
