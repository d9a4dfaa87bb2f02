package model

import "encoding/json"

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleAttendee  Role = "attendee"
)

// UserProfile represents the authenticated user as seen by the client.
type UserProfile struct {
	ID       int64  `json:"id,omitempty"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// UnmarshalJSON accepts both the English and Spanish field names used by
// the backend (name/nombre, role/rol). Role defaults to attendee.
func (u *UserProfile) UnmarshalJSON(data []byte) error {
	var w struct {
		ID       int64  `json:"id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Nombre   string `json:"nombre"`
		Role     Role   `json:"role"`
		Rol      Role   `json:"rol"`
		IsActive *bool  `json:"is_active"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*u = UserProfile{
		ID:       w.ID,
		Email:    w.Email,
		Name:     firstNonEmpty(w.Name, w.Nombre),
		Role:     Role(firstNonEmpty(string(w.Role), string(w.Rol))),
		IsActive: w.IsActive == nil || *w.IsActive,
	}
	if u.Role == "" {
		u.Role = RoleAttendee
	}
	return nil
}

// RegisterInput represents a user registration request.
type RegisterInput struct {
	Name     string `json:"-"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// MarshalJSON sends the display name as "nombre", which is what the
// registration endpoint expects.
func (r RegisterInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Nombre   string `json:"nombre"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     Role   `json:"role,omitempty"`
	}{r.Name, r.Email, r.Password, r.Role})
}

// ProfileInput represents a partial profile update. Nil fields are left untouched.
type ProfileInput struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// LoginResponse represents the token response of the login endpoint.
// Some deployments return "token" and the user; OAuth2-style ones only
// return "access_token".
type LoginResponse struct {
	Token     string       `json:"access_token"`
	TokenType string       `json:"token_type,omitempty"`
	User      *UserProfile `json:"user,omitempty"`
}

// UnmarshalJSON accepts either access_token or token.
func (l *LoginResponse) UnmarshalJSON(data []byte) error {
	var w struct {
		AccessToken string       `json:"access_token"`
		Token       string       `json:"token"`
		TokenType   string       `json:"token_type"`
		User        *UserProfile `json:"user"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*l = LoginResponse{
		Token:     firstNonEmpty(w.AccessToken, w.Token),
		TokenType: w.TokenType,
		User:      w.User,
	}
	return nil
}

// RegisterResponse represents the registration endpoint response. The
// endpoint either returns the created user alone or wrapped together with
// a session token.
type RegisterResponse struct {
	User  *UserProfile
	Token string
}

// UnmarshalJSON accepts both the bare user and the {user, token} envelope.
func (r *RegisterResponse) UnmarshalJSON(data []byte) error {
	var w struct {
		AccessToken string          `json:"access_token"`
		Token       string          `json:"token"`
		User        json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*r = RegisterResponse{Token: firstNonEmpty(w.AccessToken, w.Token)}

	raw := data
	if len(w.User) > 0 && string(w.User) != "null" {
		raw = w.User
	}
	var user UserProfile
	if err := json.Unmarshal(raw, &user); err != nil {
		return err
	}
	if user.Email != "" || user.ID != 0 {
		r.User = &user
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
