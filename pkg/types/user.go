package types

type Role string

const (
	RoleNone     Role = ""
	RoleDonor    Role = "donor"
	RoleReceiver Role = "receiver"
)

// ParseRole returns RoleNone for anything other than donor or receiver.
func ParseRole(v string) Role {
	switch Role(v) {
	case RoleDonor, RoleReceiver:
		return Role(v)
	}
	return RoleNone
}

// Identity is the signed-in account as reported by the auth provider.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
}

// Name returns the best available label for greeting the user.
func (i Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	if i.Email != "" {
		return i.Email
	}
	return "User"
}
