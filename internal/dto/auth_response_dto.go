package dto

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"` // always "bearer"
	User        UserResponse `json:"user"`
}
