package models

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is returned by registration and profile update.
type UserResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// NoteResponse is returned when a note is moved to recently deleted.
type NoteResponse struct {
	Message string `json:"message"`
	Note    Note   `json:"note"`
}
