package dto

import commonDto "quezon.gov.ph/portal/pkg/dto"

type BacDocumentRequest struct {
	Title           string   `json:"title" binding:"required,notblank,max=255"`
	Description     *string  `json:"description"`
	DocumentType    string   `json:"document_type" binding:"required,oneof=invitation_to_bid notice_of_award contract_agreement"`
	FileURL         *string  `json:"file_url" binding:"omitempty,url"`
	FileName        *string  `json:"file_name" binding:"omitempty,max=255"`
	FileSize        *int64   `json:"file_size" binding:"omitempty,min=0"`
	ReferenceNumber *string  `json:"reference_number" binding:"omitempty,max=100"`
	ProjectName     *string  `json:"project_name" binding:"omitempty,max=255"`
	Contractor      *string  `json:"contractor" binding:"omitempty,max=255"`
	ContractAmount  *float64 `json:"contract_amount" binding:"omitempty,min=0"`
	ContractDate    string   `json:"contract_date"`
	Status          string   `json:"status" binding:"omitempty,oneof=active completed archived"`
}

type BacFilter struct {
	commonDto.PageQuery
	DocumentType string `form:"document_type" binding:"omitempty,oneof=invitation_to_bid notice_of_award contract_agreement"`
	Status       string `form:"status" binding:"omitempty,oneof=active completed archived"`
}
