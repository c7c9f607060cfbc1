// Package manager drives the list/create/edit/delete flow of one entity for
// an interactive admin client. The manager holds exactly one of three modes
// at a time and scopes every remote call to its own lifetime.
package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrBusy is returned when the requested transition is not allowed from
	// the current mode, or a submit is already in flight.
	ErrBusy       = errors.New("manager: another operation is active")
	ErrNotEditing = errors.New("manager: no form is open")
	ErrNoSuchRow  = errors.New("manager: row not found")
	ErrClosed     = errors.New("manager: closed")
)

// ValidationError lists the required fields left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

type Mode int

const (
	Viewing Mode = iota
	Creating
	Editing
)

func (m Mode) String() string {
	switch m {
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	}
	return "viewing"
}

// State is the tagged mode; EditingID is set only in Editing.
type State struct {
	Mode      Mode
	EditingID string
}

type Store[Row, Form any] interface {
	List(ctx context.Context) ([]Row, error)
	Create(ctx context.Context, form Form) error
	Update(ctx context.Context, id string, form Form) error
	Delete(ctx context.Context, id string) error
}

// Notifier surfaces outcomes to the operator.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Spec describes one entity to the manager.
type Spec[Row, Form any] struct {
	// Name is the singular display name, e.g. "event".
	Name     string
	ID       func(Row) string
	ToForm   func(Row) Form
	Required func(Form) []string
}

type Manager[Row, Form any] struct {
	store     Store[Row, Form]
	spec      Spec[Row, Form]
	notifier  Notifier
	confirmer Confirmer

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	state      State
	rows       []Row
	form       Form
	submitting bool
	deleting   bool
	listGen    uint64
}

// New ties the manager's lifetime to parent; Close ends it early.
func New[Row, Form any](parent context.Context, store Store[Row, Form], spec Spec[Row, Form], notifier Notifier, confirmer Confirmer) *Manager[Row, Form] {
	ctx, cancel := context.WithCancel(parent)
	return &Manager[Row, Form]{
		store:     store,
		spec:      spec,
		notifier:  notifier,
		confirmer: confirmer,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m *Manager[Row, Form]) closed() bool {
	return m.ctx.Err() != nil
}

func (m *Manager[Row, Form]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Rows returns a copy of the last successfully loaded list.
func (m *Manager[Row, Form]) Rows() []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Row(nil), m.rows...)
}

func (m *Manager[Row, Form]) Form() Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

// Refresh reloads the list. On failure the previous rows stay visible.
func (m *Manager[Row, Form]) Refresh() error {
	if m.closed() {
		return ErrClosed
	}
	m.mu.Lock()
	m.listGen++
	gen := m.listGen
	m.mu.Unlock()

	rows, err := m.store.List(m.ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed() {
		return ErrClosed
	}
	if gen != m.listGen {
		// a newer refresh owns the list
		return nil
	}
	if err != nil {
		m.notifier.Error(fmt.Sprintf("Failed to load %ss", m.spec.Name))
		return err
	}
	m.rows = rows
	return nil
}

func (m *Manager[Row, Form]) BeginCreate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed() {
		return ErrClosed
	}
	if m.state.Mode != Viewing || m.deleting {
		return ErrBusy
	}
	var zero Form
	m.form = zero
	m.state = State{Mode: Creating}
	return nil
}

// BeginEdit opens the form populated from the row with the given id.
func (m *Manager[Row, Form]) BeginEdit(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed() {
		return ErrClosed
	}
	if m.state.Mode != Viewing || m.deleting {
		return ErrBusy
	}
	for _, r := range m.rows {
		if m.spec.ID(r) == id {
			m.form = m.spec.ToForm(r)
			m.state = State{Mode: Editing, EditingID: id}
			return nil
		}
	}
	return ErrNoSuchRow
}

// Edit mutates the open form in place.
func (m *Manager[Row, Form]) Edit(fn func(*Form)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed() {
		return ErrClosed
	}
	if m.state.Mode == Viewing {
		return ErrNotEditing
	}
	if m.submitting {
		return ErrBusy
	}
	fn(&m.form)
	return nil
}

// Cancel closes the form without touching the store.
func (m *Manager[Row, Form]) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitting {
		return
	}
	var zero Form
	m.form = zero
	m.state = State{Mode: Viewing}
}

// Submit validates the open form, then creates or updates. On success the
// form is cleared and the list reloaded; on failure the form stays open
// with its values.
func (m *Manager[Row, Form]) Submit() error {
	m.mu.Lock()
	if m.closed() {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.state.Mode == Viewing {
		m.mu.Unlock()
		return ErrNotEditing
	}
	if m.submitting {
		m.mu.Unlock()
		return ErrBusy
	}
	if missing := m.spec.Required(m.form); len(missing) > 0 {
		m.mu.Unlock()
		m.notifier.Error("Please fill in: " + strings.Join(missing, ", "))
		return &ValidationError{Fields: missing}
	}
	m.submitting = true
	state, form := m.state, m.form
	m.mu.Unlock()

	var err error
	if state.Mode == Creating {
		err = m.store.Create(m.ctx, form)
	} else {
		err = m.store.Update(m.ctx, state.EditingID, form)
	}

	m.mu.Lock()
	m.submitting = false
	if m.closed() {
		m.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		m.mu.Unlock()
		m.notifier.Error(fmt.Sprintf("Failed to save %s", m.spec.Name))
		return err
	}
	var zero Form
	m.form = zero
	m.state = State{Mode: Viewing}
	m.mu.Unlock()

	if state.Mode == Creating {
		m.notifier.Success(fmt.Sprintf("%s created", capitalize(m.spec.Name)))
	} else {
		m.notifier.Success(fmt.Sprintf("%s updated", capitalize(m.spec.Name)))
	}
	m.reload()
	return nil
}

// reload refreshes after a committed write. Refresh already notifies on
// failure, and the write stands either way.
func (m *Manager[Row, Form]) reload() {
	_ = m.Refresh()
}

// Delete asks for confirmation first; a declined prompt makes no call. It is
// only allowed while Viewing with nothing else in flight.
func (m *Manager[Row, Form]) Delete(id string) error {
	if err := m.idle(); err != nil {
		return err
	}
	if !m.confirmer.Confirm(m.ctx, fmt.Sprintf("Delete this %s?", m.spec.Name)) {
		return nil
	}

	m.mu.Lock()
	if err := m.idleLocked(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.deleting = true
	m.mu.Unlock()

	err := m.store.Delete(m.ctx, id)

	m.mu.Lock()
	m.deleting = false
	m.mu.Unlock()

	if m.closed() {
		return ErrClosed
	}
	if err != nil {
		m.notifier.Error(fmt.Sprintf("Failed to delete %s", m.spec.Name))
		return err
	}
	m.notifier.Success(fmt.Sprintf("%s deleted", capitalize(m.spec.Name)))
	m.reload()
	return nil
}

func (m *Manager[Row, Form]) idle() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idleLocked()
}

func (m *Manager[Row, Form]) idleLocked() error {
	if m.closed() {
		return ErrClosed
	}
	if m.state.Mode != Viewing || m.submitting || m.deleting {
		return ErrBusy
	}
	return nil
}

// Close cancels in-flight calls; their results are discarded.
func (m *Manager[Row, Form]) Close() {
	m.cancel()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
