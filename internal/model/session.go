package model

// Session is the result of a successful login.
type Session struct {
	User   PublicUser
	Tokens TokenPair
}

// LogoutRequest carries whatever credentials the client still holds.
// Either field may be empty.
type LogoutRequest struct {
	AccessToken  string
	RefreshToken string
}
