package services

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"campusconnect/internal/domain"
)

var errStore = errors.New("connection refused")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	createErr error
	getErr    error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateName(ctx context.Context, id, name string, updatedAt time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Name = name
	u.UpdatedAt = updatedAt
	return nil
}

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	createErr error
	getErr    error
	updates   []domain.EventUpdate
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event)}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) sorted(desc bool) []*domain.Event {
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].Date+out[i].Time, out[j].Date+out[j].Time
		if desc {
			return ki > kj
		}
		return ki < kj
	})
	return out
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.sorted(true), nil
}

func (f *fakeEventRepo) ListByDateRange(ctx context.Context, from, to string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.sorted(false) {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	f.updates = append(f.updates, upd)
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&e.Title, upd.Title)
	set(&e.Description, upd.Description)
	set(&e.Date, upd.Date)
	set(&e.Time, upd.Time)
	set(&e.EndTime, upd.EndTime)
	set(&e.Location, upd.Location)
	set(&e.Category, upd.Category)
	if upd.Banner != nil {
		e.Banner = upd.Banner
	}
	if upd.ClearBanner {
		e.Banner = nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeRegistrationRepo implements domain.RegistrationRepository for tests.
type fakeRegistrationRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Registration
	order     []string
	createErr error
	// markMisses makes MarkCheckedIn report a lost race.
	markMisses bool
}

func newFakeRegistrationRepo(regs ...*domain.Registration) *fakeRegistrationRepo {
	f := &fakeRegistrationRepo{byID: make(map[string]*domain.Registration)}
	for _, r := range regs {
		f.byID[r.ID] = r
		f.order = append(f.order, r.ID)
	}
	return f
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, r *domain.Registration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return false, f.createErr
	}
	if _, ok := f.byID[r.ID]; ok {
		return false, nil
	}
	cp := *r
	f.byID[r.ID] = &cp
	f.order = append(f.order, r.ID)
	return true, nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) filter(keep func(*domain.Registration) bool) []*domain.Registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Registration, 0)
	for _, id := range f.order {
		if r := f.byID[id]; keep(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out
}

func (f *fakeRegistrationRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	return f.filter(func(r *domain.Registration) bool { return r.UserID == userID }), nil
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	return f.filter(func(r *domain.Registration) bool { return r.EventID == eventID }), nil
}

func (f *fakeRegistrationRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	all := f.filter(func(*domain.Registration) bool { return true })
	return domain.Window(all, params), len(all), nil
}

func (f *fakeRegistrationRepo) CountByEventID(ctx context.Context, eventID string) (int, error) {
	regs, _ := f.ListByEventID(ctx, eventID)
	return len(regs), nil
}

func (f *fakeRegistrationRepo) MarkCheckedIn(ctx context.Context, id string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok || r.CheckedIn || f.markMisses {
		return false, nil
	}
	r.CheckedIn = true
	r.CheckedInAt = &at
	return true, nil
}

func (f *fakeRegistrationRepo) DeleteByEventID(ctx context.Context, eventID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, r := range f.byID {
		if r.EventID == eventID {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

// fakePublisher records published routing keys.
type fakePublisher struct {
	keys []string
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, key string, payload any) error {
	f.keys = append(f.keys, key)
	return f.err
}

// asPublisher keeps a nil *fakePublisher from becoming a non-nil interface.
func asPublisher(p *fakePublisher) domain.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

// fakeEmailService records confirmation emails.
type fakeEmailService struct {
	sent []*domain.RegistrationConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	f.sent = append(f.sent, data)
	return f.err
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}
func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email string, role domain.Role, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID + "-" + string(role), nil
}

// fakeDecoder implements domain.QRDecoder for tests.
type fakeDecoder struct {
	text  string
	found bool
	err   error
}

func (f *fakeDecoder) Decode(img image.Image) (string, bool, error) {
	return f.text, f.found, f.err
}

// fakeTextGenerator implements domain.TextGenerator for tests.
type fakeTextGenerator struct {
	reply   string
	err     error
	prompts []string
	opts    []domain.GenerationOptions
}

func (f *fakeTextGenerator) Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	return f.reply, f.err
}

// fakeRenderer implements domain.ImageRenderer for tests.
type fakeRenderer struct {
	url string
	err error
}

func (f *fakeRenderer) Render(ctx context.Context, prompt string, req domain.BannerRequest) (string, error) {
	return f.url, f.err
}

// fakeMailer implements domain.Mailer for tests.
type fakeMailer struct {
	to, subject string
	err         error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	f.to, f.subject = to, subject
	return f.err
}

// fakeTemplates implements domain.EmailTemplateRenderer for tests.
type fakeTemplates struct {
	name string
	err  error
}

func (f *fakeTemplates) Render(name string, data any) (string, string, string, error) {
	f.name = name
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject", "<p>html</p>", "text", nil
}

var (
	organizer = &domain.Actor{ID: "org-1", Name: "Olivia", Email: "olivia@campus.edu", Role: domain.RoleOrganizer}
	otherOrg  = &domain.Actor{ID: "org-2", Name: "Omar", Email: "omar@campus.edu", Role: domain.RoleOrganizer}
	student   = &domain.Actor{ID: "stu-1", Name: "Sam", Email: "sam@campus.edu", Role: domain.RoleStudent}
)

// goNight is the 2025-07-15 10:00-12:00 event owned by organizer.
func goNight() *domain.Event {
	return &domain.Event{
		ID: "ev-1", Title: "Go Night", Date: "2025-07-15", Time: "10:00", EndTime: "12:00",
		Location: "Hall A", Category: "Tech",
		Organizer: domain.Organizer{Name: organizer.Name, Contact: organizer.Email},
	}
}

func july15(clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", "2025-07-15 "+clock, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}
