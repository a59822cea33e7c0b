package models

// User carries the credentials exchanged with the credential-issuance
// endpoints. PasswordHash never leaves the server.
type User struct {
	UserID       int64  `json:"userId,omitempty"`
	Login        string `json:"login" validate:"required"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"-"`
}

// Token is an issued bearer credential together with the user it belongs to.
type Token struct {
	SignedString string `json:"token"`
	UserID       int64  `json:"userId"`
}
