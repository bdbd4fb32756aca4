package dto

// DemoUserDTO identifies the demo identity a token was issued for.
type DemoUserDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DemoLoginResponse carries a short lived bearer token for trying the
// API without an identity provider.
type DemoLoginResponse struct {
	Token string      `json:"token"`
	User  DemoUserDTO `json:"user"`
}
