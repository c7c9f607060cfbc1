package dto

type ContactRequest struct {
	Name       string  `json:"name" binding:"required,notblank,max=255"`
	Email      string  `json:"email" binding:"required,email,max=255"`
	Phone      *string `json:"phone" binding:"omitempty,max=50"`
	Subject    string  `json:"subject" binding:"required,notblank,max=255"`
	Message    string  `json:"message" binding:"required,notblank,max=5000"`
	Department *string `json:"department" binding:"omitempty,max=100"`
}

type ContactFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=new in_progress resolved closed pending"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new in_progress resolved closed pending"`
}
