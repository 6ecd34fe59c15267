// Package caldav publishes client sessions to a CalDAV calendar (Apple
// Calendar, Fastmail, Nextcloud, etc.), one calendar object per session.
package caldav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/felixgeelhaar/trainbook/internal/scheduling/infrastructure/icalexport"
	"github.com/google/uuid"
)

// Common CalDAV server URLs
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

// ErrNoCalendar is returned when the account has no calendar to write to.
var ErrNoCalendar = errors.New("no calendars found")

// Config holds the CalDAV account.
type Config struct {
	URL          string
	Username     string
	Password     string // App-specific password for Apple
	CalendarPath string // Specific calendar path, or empty for the first calendar
	Timeout      time.Duration
}

// SyncResult counts the objects written and removed.
type SyncResult struct {
	Created int
	Updated int
	Deleted int
	Failed  int
}

// Publisher writes sessions rendered by an icalexport.Exporter.
type Publisher struct {
	cfg      Config
	exporter *icalexport.Exporter
	logger   *slog.Logger
}

// NewPublisher creates a CalDAV publisher.
func NewPublisher(cfg Config, exporter *icalexport.Exporter, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Publisher{cfg: cfg, exporter: exporter, logger: logger}
}

// Sync writes every session of entries and removes trainbook objects of
// clients that are no longer listed.
func (p *Publisher) Sync(ctx context.Context, entries []icalexport.Entry) (*SyncResult, error) {
	return p.sync(ctx, entries, func(uuid.UUID) bool { return true })
}

// PublishClient writes the sessions of one client and removes its sessions
// that no longer exist.
func (p *Publisher) PublishClient(ctx context.Context, entry icalexport.Entry) (*SyncResult, error) {
	return p.sync(ctx, []icalexport.Entry{entry}, func(owner uuid.UUID) bool { return owner == entry.OwnerID })
}

// RemoveClient removes every session of a client.
func (p *Publisher) RemoveClient(ctx context.Context, ownerID uuid.UUID) (int, error) {
	result, err := p.sync(ctx, nil, func(owner uuid.UUID) bool { return owner == ownerID })
	if err != nil {
		return 0, err
	}
	return result.Deleted, nil
}

// sync puts the objects for entries, then deletes stored trainbook objects
// whose owner is in scope and which were not just written.
func (p *Publisher) sync(ctx context.Context, entries []icalexport.Entry, inScope func(uuid.UUID) bool) (*SyncResult, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := p.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	result := &SyncResult{}
	keepPaths := make(map[string]struct{})

	for _, obj := range p.exporter.Objects(entries) {
		objectPath := ObjectPath(calPath, obj.UID)
		keepPaths[objectPath] = struct{}{}

		updated, err := p.upsert(ctx, client, objectPath, obj.Calendar)
		if err != nil {
			p.logger.Warn("caldav put failed", "path", objectPath, "error", err)
			result.Failed++
			continue
		}
		if updated {
			result.Updated++
		} else {
			result.Created++
		}
	}

	deleted, err := p.deleteMissing(ctx, client, calPath, keepPaths, inScope)
	if err != nil {
		p.logger.Warn("caldav delete missing failed", "error", err)
	}
	result.Deleted = deleted

	p.logger.Info("caldav sync completed",
		"created", result.Created,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"failed", result.Failed,
	)
	return result, nil
}

func (p *Publisher) getClient() (*caldav.Client, error) {
	httpClient := &http.Client{Timeout: p.cfg.Timeout}

	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, p.cfg.Username, p.cfg.Password), p.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return client, nil
}

func (p *Publisher) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if p.cfg.CalendarPath != "" {
		return p.cfg.CalendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", ErrNoCalendar
	}

	// Use first calendar as default
	return cals[0].Path, nil
}

func (p *Publisher) upsert(ctx context.Context, client *caldav.Client, objectPath string, cal *ical.Calendar) (bool, error) {
	_, err := client.GetCalendarObject(ctx, objectPath)
	exists := err == nil

	if _, err := client.PutCalendarObject(ctx, objectPath, cal); err != nil {
		return false, err
	}
	return exists, nil
}

func (p *Publisher) deleteMissing(ctx context.Context, client *caldav.Client, calPath string, keepPaths map[string]struct{}, inScope func(uuid.UUID) bool) (int, error) {
	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name: "VCALENDAR",
			Comps: []caldav.CalendarCompRequest{
				{
					Name:  "VEVENT",
					Props: []string{"UID", icalexport.PropXTrainbook, icalexport.PropXTrainbookClient},
				},
			},
		},
		CompFilter: caldav.CompFilter{
			Name:  "VCALENDAR",
			Comps: []caldav.CompFilter{{Name: "VEVENT"}},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, obj := range objects {
		owner, ok := trainbookOwner(obj.Data)
		if !ok || !inScope(owner) {
			continue
		}
		if _, keep := keepPaths[obj.Path]; keep {
			continue
		}

		if err := client.RemoveAll(ctx, obj.Path); err != nil {
			p.logger.Warn("failed to delete caldav object", "path", obj.Path, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// ObjectPath is the resource path of a session inside the calendar
// collection.
func ObjectPath(calPath, uid string) string {
	name, _, _ := strings.Cut(uid, "@")
	if !strings.HasSuffix(calPath, "/") {
		calPath += "/"
	}
	return calPath + name + ".ics"
}

// trainbookOwner reports the owner of the first trainbook event in data.
// Objects written by other applications are never touched.
func trainbookOwner(data *ical.Calendar) (uuid.UUID, bool) {
	if data == nil {
		return uuid.Nil, false
	}
	for _, child := range data.Children {
		if child.Name != ical.CompEvent {
			continue
		}
		if child.Props.Get(icalexport.PropXTrainbook) == nil {
			continue
		}
		return icalexport.OwnerOf(child), true
	}
	return uuid.Nil, false
}
