package api

// Auth request types
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type SignupRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the current-user record. Fields the server omits stay empty.
type User struct {
	UserName string   `json:"userName"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles,omitempty"`
}

// UpdateProfileRequest changes the username and/or password. Empty fields
// are left out of the body so the server keeps their current value.
type UpdateProfileRequest struct {
	UserName string `json:"userName,omitempty"`
	Password string `json:"password,omitempty"`
}

// Empty reports whether the request would change nothing.
func (r UpdateProfileRequest) Empty() bool {
	return r.UserName == "" && r.Password == ""
}
