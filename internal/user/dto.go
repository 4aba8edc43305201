// AngelaMos | 2026
// dto.go

package user

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Type     string `json:"type"     validate:"required"`
	Password string `json:"password" validate:"required,max=128"`
}

type UserResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type ResetResponse struct {
	Deleted int64 `json:"deleted"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:   u.ID,
		Name: u.Name,
		Type: u.Type,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
