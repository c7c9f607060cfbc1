package manager

import (
	"strings"
	"time"

	"quezon.gov.ph/portal/internal/entity"
	documentDto "quezon.gov.ph/portal/internal/modules/document/dto"
	eventDto "quezon.gov.ph/portal/internal/modules/event/dto"
	newsDto "quezon.gov.ph/portal/internal/modules/news/dto"
	commonDto "quezon.gov.ph/portal/pkg/dto"
)

// InputDateTime renders t the way a datetime-local input expects it, in
// Philippine time.
func InputDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(commonDto.PhilippineTime).Format(commonDto.DateTimeLocal)
}

func inputDateTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return InputDateTime(*t)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func missing(fields ...[2]string) []string {
	var out []string
	for _, f := range fields {
		if blank(f[1]) {
			out = append(out, f[0])
		}
	}
	return out
}

func EventSpec() Spec[entity.Event, eventDto.EventRequest] {
	return Spec[entity.Event, eventDto.EventRequest]{
		Name: "event",
		ID:   func(e entity.Event) string { return e.ID.String() },
		ToForm: func(e entity.Event) eventDto.EventRequest {
			return eventDto.EventRequest{
				Title:                e.Title,
				Description:          e.Description,
				EventDate:            InputDateTime(e.EventDate),
				EndDate:              inputDateTimePtr(e.EndDate),
				Location:             e.Location,
				Venue:                e.Venue,
				ImageURL:             e.ImageURL,
				Category:             e.Category,
				Organizer:            e.Organizer,
				ContactEmail:         e.ContactEmail,
				ContactPhone:         e.ContactPhone,
				RegistrationRequired: e.RegistrationRequired,
				RegistrationDeadline: inputDateTimePtr(e.RegistrationDeadline),
				RegistrationLink:     e.RegistrationLink,
				MaxCapacity:          e.MaxCapacity,
				Fee:                  e.Fee,
				Currency:             e.Currency,
				Status:               string(e.Status),
			}
		},
		Required: func(f eventDto.EventRequest) []string {
			return missing(
				[2]string{"title", f.Title},
				[2]string{"description", f.Description},
				[2]string{"event_date", f.EventDate},
			)
		},
	}
}

func NewsSpec() Spec[entity.News, newsDto.NewsRequest] {
	return Spec[entity.News, newsDto.NewsRequest]{
		Name: "news article",
		ID:   func(n entity.News) string { return n.ID.String() },
		ToForm: func(n entity.News) newsDto.NewsRequest {
			return newsDto.NewsRequest{
				Title:       n.Title,
				Content:     n.Content,
				Excerpt:     n.Excerpt,
				ImageURL:    n.ImageURL,
				Status:      string(n.Status),
				PublishDate: n.PublishDate,
				Category:    n.Category,
				Tags:        append([]string(nil), n.Tags...),
			}
		},
		Required: func(f newsDto.NewsRequest) []string {
			return missing(
				[2]string{"title", f.Title},
				[2]string{"content", f.Content},
			)
		},
	}
}

func DocumentSpec() Spec[entity.Document, documentDto.DocumentRequest] {
	return Spec[entity.Document, documentDto.DocumentRequest]{
		Name: "document",
		ID:   func(d entity.Document) string { return d.ID.String() },
		ToForm: func(d entity.Document) documentDto.DocumentRequest {
			return documentDto.DocumentRequest{
				Title:       d.Title,
				Description: d.Description,
				Category:    d.Category,
				Department:  d.Department,
				FileURL:     d.FileURL,
				FileType:    d.FileType,
				FileSize:    d.FileSize,
				Status:      string(d.Status),
			}
		},
		Required: func(f documentDto.DocumentRequest) []string {
			return missing(
				[2]string{"title", f.Title},
				[2]string{"category", f.Category},
				[2]string{"file_url", f.FileURL},
			)
		},
	}
}
