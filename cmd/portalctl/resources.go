package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/manager"
	documentDto "quezon.gov.ph/portal/internal/modules/document/dto"
	eventDto "quezon.gov.ph/portal/internal/modules/event/dto"
	newsDto "quezon.gov.ph/portal/internal/modules/news/dto"
	commonDto "quezon.gov.ph/portal/pkg/dto"
	"quezon.gov.ph/portal/pkg/portalclient"
)

// resource describes one admin entity to the command tree.
type resource[Row, Form any] struct {
	use     string
	store   func(*portalclient.Client) manager.Store[Row, Form]
	spec    manager.Spec[Row, Form]
	header  []string
	columns func(Row) []string
	fields  func(*formFlags[Form])
}

// formFlags binds one flag per form field. Only flags given on the command
// line touch the form, so edit keeps the values it loaded.
type formFlags[Form any] struct {
	cmd   *cobra.Command
	apply []func(*Form) error
}

func (f *formFlags[Form]) str(name, usage string, set func(*Form, string)) {
	v := new(string)
	f.cmd.Flags().StringVar(v, name, "", usage)
	f.apply = append(f.apply, func(form *Form) error {
		if f.cmd.Flags().Changed(name) {
			set(form, *v)
		}
		return nil
	})
}

func (f *formFlags[Form]) opt(name, usage string, set func(*Form, *string)) {
	f.str(name, usage+" (empty clears)", func(form *Form, v string) { set(form, optional(v)) })
}

func (f *formFlags[Form]) parsed(name, usage string, set func(*Form, string) error) {
	v := new(string)
	f.cmd.Flags().StringVar(v, name, "", usage)
	f.apply = append(f.apply, func(form *Form) error {
		if !f.cmd.Flags().Changed(name) {
			return nil
		}
		if err := set(form, *v); err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
		return nil
	})
}

func (f *formFlags[Form]) boolean(name, usage string, set func(*Form, bool)) {
	v := new(bool)
	f.cmd.Flags().BoolVar(v, name, false, usage)
	f.apply = append(f.apply, func(form *Form) error {
		if f.cmd.Flags().Changed(name) {
			set(form, *v)
		}
		return nil
	})
}

func (f *formFlags[Form]) list(name, usage string, set func(*Form, []string)) {
	v := new([]string)
	f.cmd.Flags().StringSliceVar(v, name, nil, usage)
	f.apply = append(f.apply, func(form *Form) error {
		if f.cmd.Flags().Changed(name) {
			set(form, *v)
		}
		return nil
	})
}

func (f *formFlags[Form]) fill(form *Form) error {
	for _, apply := range f.apply {
		if err := apply(form); err != nil {
			return err
		}
	}
	return nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func resourceCmd[Row, Form any](a *app, r resource[Row, Form]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.use,
		Short: fmt.Sprintf("List, create, edit and delete %s", r.use),
	}

	// open builds a manager bound to the command's lifetime.
	open := func(ctx context.Context) (*manager.Manager[Row, Form], error) {
		c, err := a.client()
		if err != nil {
			return nil, err
		}
		return manager.New(ctx, r.store(c), r.spec, a, a), nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all " + r.use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.Refresh(); err != nil {
				return err
			}
			return printTable(a.out, r.header, m.Rows(), r.columns)
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a " + r.spec.Name,
		Args:  cobra.NoArgs,
	}
	createFlags := &formFlags[Form]{cmd: create}
	r.fields(createFlags)
	create.RunE = func(cmd *cobra.Command, args []string) error {
		m, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer m.Close()
		if err := m.BeginCreate(); err != nil {
			return err
		}
		return submit(m, createFlags)
	}

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing " + r.spec.Name,
		Args:  cobra.ExactArgs(1),
	}
	editFlags := &formFlags[Form]{cmd: edit}
	r.fields(editFlags)
	edit.RunE = func(cmd *cobra.Command, args []string) error {
		m, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer m.Close()
		if err := m.Refresh(); err != nil {
			return err
		}
		if err := m.BeginEdit(args[0]); err != nil {
			if errors.Is(err, manager.ErrNoSuchRow) {
				return fmt.Errorf("no %s with id %s", r.spec.Name, args[0])
			}
			return err
		}
		return submit(m, editFlags)
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + r.spec.Name + " after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()
			return m.Delete(args[0])
		},
	}
	del.Flags().BoolVarP(&a.assumeYes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, create, edit, del)
	return cmd
}

func submit[Row, Form any](m *manager.Manager[Row, Form], flags *formFlags[Form]) error {
	var fillErr error
	if err := m.Edit(func(form *Form) { fillErr = flags.fill(form) }); err != nil {
		return err
	}
	if fillErr != nil {
		m.Cancel()
		return fillErr
	}
	return m.Submit()
}

func printTable[Row any](w io.Writer, header []string, rows []Row, columns func(Row) []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(columns(row), "\t"))
	}
	if len(rows) == 0 {
		fmt.Fprintln(tw, "(none)")
	}
	return tw.Flush()
}

func listTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(commonDto.PhilippineTime).Format("2006-01-02 15:04")
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func eventResource() resource[entity.Event, eventDto.EventRequest] {
	return resource[entity.Event, eventDto.EventRequest]{
		use: "events",
		store: func(c *portalclient.Client) manager.Store[entity.Event, eventDto.EventRequest] {
			return c.Events()
		},
		spec:   manager.EventSpec(),
		header: []string{"ID", "DATE", "STATUS", "LOCATION", "TITLE"},
		columns: func(e entity.Event) []string {
			return []string{e.ID.String(), listTime(e.EventDate), string(e.Status), deref(e.Location), e.Title}
		},
		fields: func(f *formFlags[eventDto.EventRequest]) {
			type form = eventDto.EventRequest
			f.str("title", "event title", func(r *form, v string) { r.Title = v })
			f.str("description", "event description", func(r *form, v string) { r.Description = v })
			f.str("event-date", "start, e.g. 2026-03-01T08:00 (Philippine time)", func(r *form, v string) { r.EventDate = v })
			f.str("end-date", "end, same format", func(r *form, v string) { r.EndDate = v })
			f.opt("location", "location", func(r *form, v *string) { r.Location = v })
			f.opt("venue", "venue", func(r *form, v *string) { r.Venue = v })
			f.opt("category", "category", func(r *form, v *string) { r.Category = v })
			f.opt("organizer", "organizer", func(r *form, v *string) { r.Organizer = v })
			f.opt("image-url", "cover image URL", func(r *form, v *string) { r.ImageURL = v })
			f.opt("contact-email", "contact email", func(r *form, v *string) { r.ContactEmail = v })
			f.opt("contact-phone", "contact phone", func(r *form, v *string) { r.ContactPhone = v })
			f.boolean("registration-required", "attendees must register", func(r *form, v bool) { r.RegistrationRequired = v })
			f.str("registration-deadline", "registration deadline", func(r *form, v string) { r.RegistrationDeadline = v })
			f.opt("registration-link", "registration URL", func(r *form, v *string) { r.RegistrationLink = v })
			f.parsed("max-capacity", "maximum attendees (empty clears)", func(r *form, v string) error {
				if v == "" {
					r.MaxCapacity = nil
					return nil
				}
				n, err := strconv.Atoi(v)
				if err != nil {
					return err
				}
				r.MaxCapacity = &n
				return nil
			})
			f.parsed("fee", "entrance fee (empty clears)", func(r *form, v string) error {
				if v == "" {
					r.Fee = nil
					return nil
				}
				n, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return err
				}
				r.Fee = &n
				return nil
			})
			f.str("currency", "ISO currency code", func(r *form, v string) { r.Currency = strings.ToUpper(v) })
			f.str("status", "upcoming, ongoing, completed or cancelled", func(r *form, v string) { r.Status = v })
		},
	}
}

func newsResource() resource[entity.News, newsDto.NewsRequest] {
	return resource[entity.News, newsDto.NewsRequest]{
		use: "news",
		store: func(c *portalclient.Client) manager.Store[entity.News, newsDto.NewsRequest] {
			return c.News()
		},
		spec:   manager.NewsSpec(),
		header: []string{"ID", "STATUS", "CREATED", "TITLE"},
		columns: func(n entity.News) []string {
			return []string{n.ID.String(), string(n.Status), listTime(n.CreatedAt), n.Title}
		},
		fields: func(f *formFlags[newsDto.NewsRequest]) {
			type form = newsDto.NewsRequest
			f.str("title", "headline", func(r *form, v string) { r.Title = v })
			f.str("content", "article body (HTML)", func(r *form, v string) { r.Content = v })
			f.opt("excerpt", "short summary", func(r *form, v *string) { r.Excerpt = v })
			f.opt("image-url", "cover image URL", func(r *form, v *string) { r.ImageURL = v })
			f.opt("category", "category", func(r *form, v *string) { r.Category = v })
			f.list("tags", "comma-separated tags", func(r *form, v []string) { r.Tags = v })
			f.str("status", "draft, published or archived", func(r *form, v string) { r.Status = v })
			f.parsed("publish-date", "publish date, e.g. 2026-03-01T08:00 (empty clears)", func(r *form, v string) error {
				if v == "" {
					r.PublishDate = nil
					return nil
				}
				t, err := commonDto.ParseDateTime(v, commonDto.PhilippineTime)
				if err != nil {
					return err
				}
				r.PublishDate = &t
				return nil
			})
		},
	}
}

func documentResource() resource[entity.Document, documentDto.DocumentRequest] {
	return resource[entity.Document, documentDto.DocumentRequest]{
		use: "documents",
		store: func(c *portalclient.Client) manager.Store[entity.Document, documentDto.DocumentRequest] {
			return c.Documents()
		},
		spec:   manager.DocumentSpec(),
		header: []string{"ID", "CATEGORY", "STATUS", "DOWNLOADS", "TITLE"},
		columns: func(d entity.Document) []string {
			return []string{d.ID.String(), d.Category, string(d.Status), strconv.Itoa(d.DownloadCount), d.Title}
		},
		fields: func(f *formFlags[documentDto.DocumentRequest]) {
			type form = documentDto.DocumentRequest
			f.str("title", "document title", func(r *form, v string) { r.Title = v })
			f.str("category", "category, e.g. ordinances", func(r *form, v string) { r.Category = v })
			f.str("file-url", "public file URL", func(r *form, v string) { r.FileURL = v })
			f.opt("description", "description", func(r *form, v *string) { r.Description = v })
			f.opt("department", "issuing department", func(r *form, v *string) { r.Department = v })
			f.opt("file-type", "file type, e.g. pdf", func(r *form, v *string) { r.FileType = v })
			f.parsed("file-size", "size in bytes (empty clears)", func(r *form, v string) error {
				if v == "" {
					r.FileSize = nil
					return nil
				}
				n, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					return err
				}
				r.FileSize = &n
				return nil
			})
			f.str("status", "draft, published or archived", func(r *form, v string) { r.Status = v })
		},
	}
}
