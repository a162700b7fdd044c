package service

import (
	"context"
	"database/sql"
	"io"
	"sync"
	"time"

	"github.com/iliyamo/timesheet-reporting/internal/model"
	"github.com/iliyamo/timesheet-reporting/internal/queue"
	"github.com/iliyamo/timesheet-reporting/internal/report"
	"github.com/iliyamo/timesheet-reporting/internal/repository"
	"github.com/iliyamo/timesheet-reporting/internal/utils"
)

const testSecret = "test-secret"

var testHasher = utils.NewHasher(utils.Argon2Params{MemoryKiB: 1024, Iterations: 1, Parallelism: 1})

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]model.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]model.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) put(u model.User) {
	f.mu.Lock()
	f.byID[u.ID] = u
	f.mu.Unlock()
}

func (f *fakeUsers) remove(id string) {
	f.mu.Lock()
	delete(f.byID, id)
	f.mu.Unlock()
}

type fakeSessions struct {
	mu   sync.Mutex
	byID map[string]model.Session
}

func newFakeSessions() *fakeSessions { return &fakeSessions{byID: map[string]model.Session{}} }

func (f *fakeSessions) Create(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[s.ID]; ok {
		return repository.ErrDuplicate
	}
	f.byID[s.ID] = *s
	return nil
}

func (f *fakeSessions) GetForUser(_ context.Context, id, userID string) (model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok || s.UserID != userID {
		return model.Session{}, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	delete(f.byID, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeSessions) DeleteAllForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.byID {
		if s.UserID == userID {
			delete(f.byID, id)
		}
	}
	return nil
}

func (f *fakeSessions) countFor(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.byID {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

func (f *fakeSessions) update(id string, fn func(*model.Session)) {
	f.mu.Lock()
	s := f.byID[id]
	fn(&s)
	f.byID[id] = s
	f.mu.Unlock()
}

type fakeClients struct{ byID map[string]model.Client }

func (f *fakeClients) ListByName(context.Context) ([]model.Client, error) {
	out := []model.Client{}
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClients) GetByID(_ context.Context, id string) (model.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return model.Client{}, sql.ErrNoRows
	}
	return c, nil
}

type fakeEntries struct {
	mu      sync.Mutex
	entries []model.TimesheetEntry
	clients *fakeClients
}

func (f *fakeEntries) CreateIfNoOverlap(_ context.Context, e *model.TimesheetEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.entries {
		if x.UserID == e.UserID && x.Date.Equal(e.Date) &&
			x.StartTime.Before(e.EndTime) && x.EndTime.After(e.StartTime) {
			return repository.ErrOverlap
		}
	}
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeEntries) ListForUser(_ context.Context, userID string) ([]model.TimesheetRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.TimesheetRow{}
	for _, e := range f.entries {
		if e.UserID != userID {
			continue
		}
		row := model.TimesheetRow{
			ID: e.ID, Date: e.Date, StartTime: e.StartTime, EndTime: e.EndTime,
			TotalHrs: e.TotalHrs, Remarks: e.Remarks, Status: e.Status,
			Position: e.Position, SiteAddress: e.SiteAddress,
		}
		if c, ok := f.clients.byID[e.ClientID]; ok {
			c := c
			row.Client = &c
		}
		out = append(out, row)
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.Event) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type deleteCall struct {
	ids []string
	typ AssetType
}

type fakeMediaStore struct {
	uploads []UploadOptions
	bodies  [][]byte
	deletes []deleteCall
	err     error
}

func (f *fakeMediaStore) Upload(_ context.Context, r io.Reader, opts UploadOptions) (Uploaded, error) {
	if f.err != nil {
		return Uploaded{}, f.err
	}
	body, _ := io.ReadAll(r)
	f.uploads = append(f.uploads, opts)
	f.bodies = append(f.bodies, body)
	id := opts.Folder + "/" + opts.PublicID
	if opts.PublicID == "" {
		id = opts.Folder + "/generated"
	}
	return Uploaded{PublicURL: "https://media.example/" + id, PublicID: id}, nil
}

func (f *fakeMediaStore) Delete(_ context.Context, ids []string, t AssetType) error {
	if f.err != nil {
		return f.err
	}
	f.deletes = append(f.deletes, deleteCall{ids: append([]string(nil), ids...), typ: t})
	return nil
}

type fakeBuilder struct {
	req report.Request
	ref time.Time
}

func (f *fakeBuilder) Build(req report.Request, ref time.Time) (report.Document, error) {
	f.req, f.ref = req, ref
	return report.Document{Body: "<p>" + req.Title + "</p>"}, nil
}

type fakeRenderer struct {
	doc report.Document
	err error
}

func (f *fakeRenderer) Render(_ context.Context, doc report.Document) ([]byte, error) {
	f.doc = doc
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}
