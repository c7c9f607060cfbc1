package dto

type RoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin moderator user bac"`
}

type AuditQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// AuditMetadata is stored with every role change.
type AuditMetadata struct {
	IP        string `json:"ip"`
	RequestID string `json:"request_id"`
}
