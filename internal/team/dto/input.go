package dto

type CreateMemberInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdatePasswordInput struct {
	ID       string `json:"-"`
	Password string `json:"password"`
}
