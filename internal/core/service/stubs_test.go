package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	seq       int
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Complaints = slices.Clone(u.Complaints)
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.seq++
	stored := cloneUser(u)
	stored.ID = fmt.Sprintf("user-%d", r.seq)
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

// FindByID mirrors the Mongo projection: no credential.
func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := cloneUser(u)
	out.Credential = domain.Credential{}
	return out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Contact != nil {
		u.Contact = *p.Contact
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.ProfImg != nil {
		u.ProfImg = *p.ProfImg
	}
	out := cloneUser(u)
	out.Credential = domain.Credential{}
	return out, nil
}

func (r *stubUserRepo) SetCredential(_ context.Context, id string, cred domain.Credential) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Credential = cred
	return nil
}

func (r *stubUserRepo) AddComplaint(_ context.Context, userID, complaintID string) error {
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Complaints = append(u.Complaints, complaintID)
	return nil
}

func (r *stubUserRepo) RemoveComplaint(_ context.Context, userID, complaintID string) error {
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Complaints = slices.DeleteFunc(u.Complaints, func(id string) bool { return id == complaintID })
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// seed stores u directly and returns its id.
func (r *stubUserRepo) seed(u domain.User) string {
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	r.byID[u.ID] = &u
	return u.ID
}

// ---------------------------------------------------------------------------
// Authorities
// ---------------------------------------------------------------------------

type stubAuthorityRepo struct {
	byID map[string]*domain.Authority
	seq  int
}

func newStubAuthorityRepo() *stubAuthorityRepo {
	return &stubAuthorityRepo{byID: make(map[string]*domain.Authority)}
}

func (r *stubAuthorityRepo) sortedIDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *stubAuthorityRepo) Create(_ context.Context, a *domain.Authority) (*domain.Authority, error) {
	for _, existing := range r.byID {
		if existing.Username == a.Username {
			return nil, domain.ErrUsernameExists
		}
		if existing.Email == a.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.seq++
	stored := *a
	stored.ID = fmt.Sprintf("auth-%d", r.seq)
	r.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubAuthorityRepo) FindByID(_ context.Context, id string) (*domain.Authority, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAuthorityNotFound
	}
	out := *a
	out.Credential = domain.Credential{}
	return &out, nil
}

func (r *stubAuthorityRepo) FindByUsername(_ context.Context, username string) (*domain.Authority, error) {
	for _, a := range r.byID {
		if a.Username == username {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrAuthorityNotFound
}

func (r *stubAuthorityRepo) FindByDistrict(_ context.Context, district string) (*domain.Authority, error) {
	for _, id := range r.sortedIDs() {
		a := r.byID[id]
		if a.Role == domain.RoleAuthority && a.District == district {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrAuthorityNotFound
}

func (r *stubAuthorityRepo) List(_ context.Context) ([]domain.Authority, error) {
	out := make([]domain.Authority, 0, len(r.byID))
	for _, id := range r.sortedIDs() {
		a := *r.byID[id]
		a.Credential = domain.Credential{}
		out = append(out, a)
	}
	return out, nil
}

func (r *stubAuthorityRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAuthorityRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *stubAuthorityRepo) Update(_ context.Context, id string, p domain.AuthorityPatch) (*domain.Authority, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAuthorityNotFound
	}
	if p.AuthorityName != nil {
		a.AuthorityName = *p.AuthorityName
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.Contact != nil {
		a.Contact = *p.Contact
	}
	if p.District != nil {
		a.District = *p.District
	}
	out := *a
	out.Credential = domain.Credential{}
	return &out, nil
}

func (r *stubAuthorityRepo) SetCredential(_ context.Context, id string, cred domain.Credential) error {
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAuthorityNotFound
	}
	a.Credential = cred
	return nil
}

func (r *stubAuthorityRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAuthorityNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAuthorityRepo) seed(a domain.Authority) string {
	r.seq++
	a.ID = fmt.Sprintf("auth-%d", r.seq)
	r.byID[a.ID] = &a
	return a.ID
}

// ---------------------------------------------------------------------------
// Complaints: filters mirror the conditional Mongo updates
// ---------------------------------------------------------------------------

type stubComplaintRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Complaint
	seq       int
	reportErr error
	reports   int
}

func newStubComplaintRepo() *stubComplaintRepo {
	return &stubComplaintRepo{byID: make(map[string]*domain.Complaint)}
}

func cloneComplaint(c *domain.Complaint) *domain.Complaint {
	out := *c
	out.Votes = slices.Clone(c.Votes)
	out.Comments = slices.Clone(c.Comments)
	out.StatusHistory = slices.Clone(c.StatusHistory)
	return &out
}

func (r *stubComplaintRepo) Create(_ context.Context, c *domain.Complaint) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	stored := cloneComplaint(c)
	stored.ID = fmt.Sprintf("cmp-%d", r.seq)
	r.byID[stored.ID] = stored
	return cloneComplaint(stored), nil
}

func (r *stubComplaintRepo) FindByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrComplaintNotFound
	}
	return cloneComplaint(c), nil
}

func (r *stubComplaintRepo) FindOwned(_ context.Context, ownerID, complaintID string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[complaintID]
	if !ok || c.Owner != ownerID {
		return nil, domain.ErrComplaintNotFound
	}
	return cloneComplaint(c), nil
}

func (r *stubComplaintRepo) TransitionStatus(_ context.Context, t ports.StatusTransition) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[t.ComplaintID]
	if !ok || !slices.Contains(t.From, c.Status) {
		return nil, domain.ErrComplaintNotFound
	}
	if a, scoped := t.Authority.Get(); scoped && c.Authority != a {
		return nil, domain.ErrComplaintNotFound
	}
	c.Status = t.To
	if t.Reason != "" {
		c.Reason = t.Reason
	}
	c.UpdatedAt = t.At
	c.StatusHistory = append(c.StatusHistory, domain.StatusChange{Status: t.To, Actor: t.Actor, Reason: t.Reason, At: t.At})
	return cloneComplaint(c), nil
}

func (r *stubComplaintRepo) ConfirmClosed(_ context.Context, ownerID, complaintID string, at time.Time) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[complaintID]
	if !ok || c.Owner != ownerID || c.Status != domain.StatusClosed {
		return nil, domain.ErrComplaintNotFound
	}
	c.Status = domain.StatusConfirmed
	c.UpdatedAt = at
	c.StatusHistory = append(c.StatusHistory, domain.StatusChange{Status: domain.StatusConfirmed, Actor: ownerID, At: at})
	return cloneComplaint(c), nil
}

func (r *stubComplaintRepo) ToggleVote(_ context.Context, complaintID, userID string, at time.Time) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[complaintID]
	if !ok {
		return nil, domain.ErrComplaintNotFound
	}
	if slices.Contains(c.Votes, userID) {
		c.Votes = slices.DeleteFunc(c.Votes, func(v string) bool { return v == userID })
	} else {
		c.Votes = append(c.Votes, userID)
	}
	c.UpdatedAt = at
	return cloneComplaint(c), nil
}

func (r *stubComplaintRepo) AppendComment(_ context.Context, complaintID string, comment domain.Comment) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[complaintID]
	if !ok {
		return nil, domain.ErrComplaintNotFound
	}
	c.Comments = append(c.Comments, comment)
	return cloneComplaint(c), nil
}

func toView(c *domain.Complaint) domain.ComplaintView {
	v := domain.ComplaintView{
		ID:        c.ID,
		Owner:     &domain.PersonRef{ID: c.Owner},
		Category:  &domain.CategoryRef{ID: c.Category},
		Title:     c.Title,
		Content:   c.Content,
		Location:  c.Location,
		Status:    c.Status,
		Reason:    c.Reason,
		Votes:     slices.Clone(c.Votes),
		VoteCount: len(c.Votes),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Authority != "" {
		v.Authority = &domain.AuthorityRef{ID: c.Authority}
	}
	return v
}

func (r *stubComplaintRepo) FindView(_ context.Context, id string) (*domain.ComplaintView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrComplaintNotFound
	}
	v := toView(c)
	return &v, nil
}

func matchOpt[T comparable](o domain.Optional[T], v T) bool {
	want, ok := o.Get()
	return !ok || want == v
}

func (r *stubComplaintRepo) List(_ context.Context, f domain.ComplaintFilter) ([]domain.ComplaintView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ComplaintView
	for _, c := range r.byID {
		if !matchOpt(f.Owner, c.Owner) || !matchOpt(f.Authority, c.Authority) ||
			!matchOpt(f.Category, c.Category) || !matchOpt(f.City, c.Location.City) ||
			!matchOpt(f.District, c.Location.District) || !matchOpt(f.Status, c.Status) {
			continue
		}
		if since, ok := f.Since.Get(); ok && c.CreatedAt.Before(since) {
			continue
		}
		out = append(out, toView(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if f.SortBy == domain.SortByUpdated {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *stubComplaintRepo) Delete(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrComplaintNotFound
	}
	delete(r.byID, id)
	return c, nil
}

func (r *stubComplaintRepo) Report(_ context.Context) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports++
	if r.reportErr != nil {
		return nil, r.reportErr
	}
	rep := &domain.Report{ByStatus: map[domain.ComplaintStatus]int64{}}
	for _, c := range r.byID {
		rep.Total++
		rep.TotalVotes += int64(len(c.Votes))
		rep.ByStatus[c.Status]++
	}
	return rep, nil
}

func (r *stubComplaintRepo) status(id string) domain.ComplaintStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].Status
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

type stubCategoryRepo struct {
	byID map[string]*domain.Category
	seq  int
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{byID: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, title string) (*domain.Category, error) {
	for _, c := range r.byID {
		if strings.EqualFold(c.Title, title) {
			return nil, domain.ErrCategoryExists
		}
	}
	r.seq++
	c := &domain.Category{ID: fmt.Sprintf("cat-%d", r.seq), Title: title}
	r.byID[c.ID] = c
	out := *c
	return &out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	out := *c
	return &out, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, id, title string) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	c.Title = title
	out := *c
	return &out, nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

type stubNotifier struct {
	err          error
	verification []ports.VerificationMail
	closed       []ports.ComplaintClosedMail
	welcome      []ports.AuthorityWelcomeMail
}

func (n *stubNotifier) SendVerification(_ context.Context, m ports.VerificationMail) error {
	n.verification = append(n.verification, m)
	return n.err
}

func (n *stubNotifier) SendComplaintClosed(_ context.Context, m ports.ComplaintClosedMail) error {
	n.closed = append(n.closed, m)
	return n.err
}

func (n *stubNotifier) SendAuthorityWelcome(_ context.Context, m ports.AuthorityWelcomeMail) error {
	n.welcome = append(n.welcome, m)
	return n.err
}

type stubEmitter struct {
	events []domain.ComplaintEvent
}

func (e *stubEmitter) Emit(evt domain.ComplaintEvent) {
	e.events = append(e.events, evt)
}

func (e *stubEmitter) types() []domain.ComplaintEventType {
	out := make([]domain.ComplaintEventType, 0, len(e.events))
	for _, evt := range e.events {
		out = append(out, evt.Type)
	}
	return out
}

type stubCache struct {
	data    map[string][]byte
	getErr  error
	hits    int
	deletes []string
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string][]byte)}
}

func (c *stubCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *stubCache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *stubCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		c.deletes = append(c.deletes, k)
	}
	return nil
}

// hexCipher is a reversible stand-in for the AEAD field cipher.
type hexCipher struct{}

func (hexCipher) Encrypt(s string) (string, error) {
	return "enc:" + hex.EncodeToString([]byte(s)), nil
}

func (hexCipher) Decrypt(s string) (string, error) {
	raw, ok := strings.CutPrefix(s, "enc:")
	if !ok {
		return "", errors.New("not encrypted")
	}
	b, err := hex.DecodeString(raw)
	return string(b), err
}

type stubEventRepo struct {
	insertErr error
	inserted  []*domain.ComplaintEvent
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.ComplaintEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

type stubPublisher struct {
	err       error
	published []domain.ComplaintEvent
}

func (p *stubPublisher) Publish(_ context.Context, e domain.ComplaintEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, e)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

type memStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStorage) EnsureBucket(context.Context) error { return nil }

func (m *memStorage) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := m.objects[key]
	if !ok {
		return nil, domain.ErrMediaNotFound
	}
	return io.NopCloser(strings.NewReader(string(b))), nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStorage) Bucket() string { return "mem" }

type stubMediaRemover struct {
	removed []string
}

func (r *stubMediaRemover) Remove(_ context.Context, ref string) error {
	r.removed = append(r.removed, ref)
	return nil
}

var testTokenConfig = TokenConfig{
	Issuer:        "test",
	SessionSecret: "session-secret",
	RefreshSecret: "refresh-secret",
	SignupSecret:  "signup-secret",
}
