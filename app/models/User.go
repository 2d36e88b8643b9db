package models

type User struct {
	Id       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash
}

type UserDto struct {
	Email string `json:"email"`
	Pass  string `json:"pass"`
}
