package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type News struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Excerpt     *string        `gorm:"type:text" json:"excerpt,omitempty"`
	ImageURL    *string        `gorm:"type:text" json:"image_url,omitempty"`
	Status      ContentStatus  `gorm:"size:20;not null;default:draft;index" json:"status"`
	PublishDate *time.Time     `json:"publish_date,omitempty"`
	Category    *string        `gorm:"size:100" json:"category,omitempty"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	AuthorID    *uuid.UUID     `gorm:"type:uuid" json:"author_id,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (News) TableName() string { return "news" }

func (n *News) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}

type Event struct {
	ID                   uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Title                string      `gorm:"size:255;not null" json:"title"`
	Description          string      `gorm:"type:text;not null" json:"description"`
	EventDate            time.Time   `gorm:"not null;index" json:"event_date"`
	EndDate              *time.Time  `json:"end_date,omitempty"`
	Location             *string     `gorm:"size:255" json:"location,omitempty"`
	Venue                *string     `gorm:"size:255" json:"venue,omitempty"`
	ImageURL             *string     `gorm:"type:text" json:"image_url,omitempty"`
	Category             *string     `gorm:"size:100" json:"category,omitempty"`
	Organizer            *string     `gorm:"size:255" json:"organizer,omitempty"`
	ContactEmail         *string     `gorm:"size:255" json:"contact_email,omitempty"`
	ContactPhone         *string     `gorm:"size:50" json:"contact_phone,omitempty"`
	RegistrationRequired bool        `gorm:"not null;default:false" json:"registration_required"`
	RegistrationDeadline *time.Time  `json:"registration_deadline,omitempty"`
	RegistrationLink     *string     `gorm:"type:text" json:"registration_link,omitempty"`
	MaxCapacity          *int        `json:"max_capacity,omitempty"`
	CurrentAttendees     int         `gorm:"not null;default:0" json:"current_attendees"`
	Fee                  *float64    `json:"fee,omitempty"`
	Currency             string      `gorm:"size:3;not null;default:PHP" json:"currency"`
	Status               EventStatus `gorm:"size:20;not null;default:upcoming;index" json:"status"`
	CreatedAt            time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string { return "events" }

func (e *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID, err = uuid.NewV7()
	}
	return
}

type Document struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string        `gorm:"size:255;not null" json:"title"`
	Description   *string       `gorm:"type:text" json:"description,omitempty"`
	Category      string        `gorm:"size:100;not null;index" json:"category"`
	Department    *string       `gorm:"size:100" json:"department,omitempty"`
	FileURL       string        `gorm:"type:text;not null" json:"file_url"`
	FileType      *string       `gorm:"size:50" json:"file_type,omitempty"`
	FileSize      *int64        `json:"file_size,omitempty"`
	DownloadCount int           `gorm:"not null;default:0" json:"download_count"`
	Status        ContentStatus `gorm:"size:20;not null;default:draft;index" json:"status"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }

func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID, err = uuid.NewV7()
	}
	return
}

// ContactMessage is submitted anonymously from the public contact form.
type ContactMessage struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string        `gorm:"size:255;not null" json:"name"`
	Email      string        `gorm:"size:255;not null" json:"email"`
	Phone      *string       `gorm:"size:50" json:"phone,omitempty"`
	Subject    string        `gorm:"size:255;not null" json:"subject"`
	Message    string        `gorm:"type:text;not null" json:"message"`
	Department *string       `gorm:"size:100" json:"department,omitempty"`
	Status     MessageStatus `gorm:"size:20;not null;default:new;index" json:"status"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}

// BacDocument is a Bids and Awards Committee procurement record.
type BacDocument struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string          `gorm:"size:255;not null" json:"title"`
	Description     *string         `gorm:"type:text" json:"description,omitempty"`
	DocumentType    BacDocumentType `gorm:"size:30;not null;index" json:"document_type"`
	FileURL         *string         `gorm:"type:text" json:"file_url,omitempty"`
	FileName        *string         `gorm:"size:255" json:"file_name,omitempty"`
	FileSize        *int64          `json:"file_size,omitempty"`
	ReferenceNumber *string         `gorm:"size:100" json:"reference_number,omitempty"`
	ProjectName     *string         `gorm:"size:255" json:"project_name,omitempty"`
	Contractor      *string         `gorm:"size:255" json:"contractor,omitempty"`
	ContractAmount  *float64        `json:"contract_amount,omitempty"`
	ContractDate    *time.Time      `json:"contract_date,omitempty"`
	Status          BacStatus       `gorm:"size:20;not null;default:active;index" json:"status"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BacDocument) TableName() string { return "bac_documents" }

func (b *BacDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID, err = uuid.NewV7()
	}
	return
}

// UploadEvent records one file pushed to storage. AttachedAt stays nil until
// a content row references the file.
type UploadEvent struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	FileURL      string     `gorm:"type:text;not null;index" json:"file_url"`
	PublicID     string     `gorm:"size:255" json:"public_id"`
	ResourceType string     `gorm:"size:20" json:"resource_type"`
	FileName     string     `gorm:"size:255" json:"file_name"`
	FileType     string     `gorm:"size:100" json:"file_type"`
	FileSize     int64      `json:"file_size"`
	AttachedAt   *time.Time `json:"attached_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (UploadEvent) TableName() string { return "upload_events" }

func (u *UploadEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID, err = uuid.NewV7()
	}
	return
}

// Tables lists every table the portal reads, in dependency order.
var Tables = []string{
	"profiles",
	"user_roles",
	"news",
	"events",
	"documents",
	"contact_messages",
	"bac_documents",
	"user_roles_audit",
	"upload_events",
}

// Models returns one zero value per table for schema migration.
func Models() []any {
	return []any{
		&Profile{},
		&UserRole{},
		&News{},
		&Event{},
		&Document{},
		&ContactMessage{},
		&BacDocument{},
		&RoleAudit{},
		&UploadEvent{},
	}
}
