package entity

import (
	"fmt"

	"quezon.gov.ph/portal/pkg/apperror"
)

// ContentStatus is the publication state of news items and documents.
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
	ContentArchived  ContentStatus = "archived"
)

func (s ContentStatus) Valid() bool {
	switch s {
	case ContentDraft, ContentPublished, ContentArchived:
		return true
	}
	return false
}

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventUpcoming, EventOngoing, EventCompleted, EventCancelled:
		return true
	}
	return false
}

type MessageStatus string

const (
	MessageNew        MessageStatus = "new"
	MessageInProgress MessageStatus = "in_progress"
	MessageResolved   MessageStatus = "resolved"
	MessageClosed     MessageStatus = "closed"
	MessagePending    MessageStatus = "pending"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageNew, MessageInProgress, MessageResolved, MessageClosed, MessagePending:
		return true
	}
	return false
}

type BacStatus string

const (
	BacActive    BacStatus = "active"
	BacCompleted BacStatus = "completed"
	BacArchived  BacStatus = "archived"
)

func (s BacStatus) Valid() bool {
	switch s {
	case BacActive, BacCompleted, BacArchived:
		return true
	}
	return false
}

type BacDocumentType string

const (
	BacInvitationToBid   BacDocumentType = "invitation_to_bid"
	BacNoticeOfAward     BacDocumentType = "notice_of_award"
	BacContractAgreement BacDocumentType = "contract_agreement"
)

func (t BacDocumentType) Valid() bool {
	switch t {
	case BacInvitationToBid, BacNoticeOfAward, BacContractAgreement:
		return true
	}
	return false
}

// Status is any of the closed string sets above.
type Status interface {
	~string
	Valid() bool
}

// ParseStatus converts raw into S, rejecting values outside the set.
func ParseStatus[S Status](raw string) (S, error) {
	s := S(raw)
	if !s.Valid() {
		return s, fmt.Errorf("unknown status %q: %w", raw, apperror.ErrInvalidInput)
	}
	return s, nil
}

// Transition validates a status change. Every valid status may move to every
// other valid status, including itself; only values outside the set fail.
func Transition[S Status](from, to S) (S, error) {
	if !from.Valid() {
		return from, fmt.Errorf("unknown current status %q: %w", string(from), apperror.ErrInvalidInput)
	}
	if !to.Valid() {
		return from, fmt.Errorf("unknown target status %q: %w", string(to), apperror.ErrInvalidInput)
	}
	return to, nil
}
