package models

// User is fully owned by the backend, the client treats it as an opaque
// value object that is always replaced wholesale.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserProfile wraps the user plus account metadata. It is fetched after every
// successful login or token bootstrap and cleared on logout, never patched in
// place.
type UserProfile struct {
	User                   User    `json:"user"`
	ConnectedGmail         *string `json:"connected_gmail"`
	DisplayPicture         string  `json:"display_picture"`
	ProfileImage           *string `json:"profile_image"`
	GmailProfilePictureURL *string `json:"gmail_profile_picture_url"`
}
