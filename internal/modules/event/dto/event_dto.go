package dto

import commonDto "quezon.gov.ph/portal/pkg/dto"

// EventRequest carries date-times as strings so both RFC 3339 and the
// datetime-local input format are accepted.
type EventRequest struct {
	Title                string   `json:"title" binding:"required,notblank,max=255"`
	Description          string   `json:"description" binding:"required,notblank"`
	EventDate            string   `json:"event_date" binding:"required"`
	EndDate              string   `json:"end_date"`
	Location             *string  `json:"location" binding:"omitempty,max=255"`
	Venue                *string  `json:"venue" binding:"omitempty,max=255"`
	ImageURL             *string  `json:"image_url" binding:"omitempty,url"`
	Category             *string  `json:"category" binding:"omitempty,max=100"`
	Organizer            *string  `json:"organizer" binding:"omitempty,max=255"`
	ContactEmail         *string  `json:"contact_email" binding:"omitempty,email"`
	ContactPhone         *string  `json:"contact_phone" binding:"omitempty,max=50"`
	RegistrationRequired bool     `json:"registration_required"`
	RegistrationDeadline string   `json:"registration_deadline"`
	RegistrationLink     *string  `json:"registration_link" binding:"omitempty,url"`
	MaxCapacity          *int     `json:"max_capacity" binding:"omitempty,min=0"`
	Fee                  *float64 `json:"fee" binding:"omitempty,min=0"`
	Currency             string   `json:"currency" binding:"omitempty,len=3"`
	Status               string   `json:"status" binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

type EventFilter struct {
	commonDto.PageQuery
	Status   string `form:"status" binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
	Category string `form:"category"`
}

type AdminEventFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
}
