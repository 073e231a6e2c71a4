package model

// AdminToken is the object signed into the admin access token.
type AdminToken struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UpdateCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateCredentialsResponse struct{}

func (r *LoginResponse) AccessTokenInfo() string {
	return r.AccessToken
}
