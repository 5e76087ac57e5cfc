// internal/domain/models/user.go
package models

import "time"

// User is the internal record for an identity issued by the external
// identity provider.
//
// NOTE:
//   - Organization membership is not stored on User. It is derived from
//     organization ownership plus accepted invites for the user's email.
type User struct {
	ID        UserID    `json:"id"`
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName joins the name parts, falling back to the email.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}
