package auth

// UserIdentity adapts a stored User to the Identity the token service
// mints for.
type UserIdentity struct {
	id    string
	name  string
	email string
	role  string
}

func (u UserIdentity) ID() string       { return u.id }
func (u UserIdentity) Username() string { return u.name }
func (u UserIdentity) Email() string    { return u.email }
func (u UserIdentity) Role() string     { return u.role }

// NewIdentityFromUser wraps a User record as an Identity.
func NewIdentityFromUser(user *User) Identity {
	return UserIdentity{
		id:    user.ID.String(),
		name:  user.Name,
		email: user.Email,
		role:  user.Role.String(),
	}
}
