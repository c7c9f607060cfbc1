package dto

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" binding:"omitempty,max=255"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

type AdminUpdateProfileRequest struct {
	FullName  *string `json:"full_name" binding:"omitempty,max=255"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

type ProfileFilter struct {
	Role string `form:"role" binding:"omitempty,oneof=admin moderator user bac"`
}
