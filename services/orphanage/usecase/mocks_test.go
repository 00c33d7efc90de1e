package usecase

import (
	"bytes"
	"context"
	"io"
	"orphancare/domain"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"
)

// fakeAdoptionRepo keeps children and requests in maps. Transaction holds a
// single mutex and works on a copy that is only written back when fn
// succeeds, so a failed paired write leaves no trace.
type fakeAdoptionRepo struct {
	mu       sync.Mutex
	children map[string]domain.Child
	requests map[string]domain.AdoptionRequest

	failSetChild error
	txCalls      int
}

var _ domain.AdoptionRepo = (*fakeAdoptionRepo)(nil)

func newFakeAdoptionRepo(children ...domain.Child) *fakeAdoptionRepo {
	r := &fakeAdoptionRepo{
		children: make(map[string]domain.Child),
		requests: make(map[string]domain.AdoptionRequest),
	}
	for _, c := range children {
		r.children[c.ID] = c
	}
	return r
}

func (r *fakeAdoptionRepo) Transaction(ctx context.Context, fn func(store domain.AdoptionStore) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txCalls++

	if err := ctx.Err(); err != nil {
		return domain.Unavailable("Service temporarily unavailable, please retry", err)
	}

	tx := &fakeStore{
		repo:     r,
		children: make(map[string]domain.Child, len(r.children)),
		requests: make(map[string]domain.AdoptionRequest, len(r.requests)),
	}
	for k, v := range r.children {
		tx.children[k] = v
	}
	for k, v := range r.requests {
		tx.requests[k] = v
	}

	if err := fn(tx); err != nil {
		return err
	}
	r.children = tx.children
	r.requests = tx.requests
	return nil
}

func (r *fakeAdoptionRepo) FindRequest(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.NotFound("Adoption request not found")
	}
	return &req, nil
}

func (r *fakeAdoptionRepo) ListRequests(ctx context.Context, userID string) ([]domain.AdoptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AdoptionRequest
	for _, req := range r.requests {
		if userID == "" || req.UserID == userID {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeAdoptionRepo) LatestRequests(ctx context.Context) (map[string]domain.AdoptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]domain.AdoptionRequest)
	for _, req := range r.requests {
		cur, ok := out[req.ChildID]
		if !ok || req.LastTouched().After(cur.LastTouched()) {
			out[req.ChildID] = req
		}
	}
	return out, nil
}

func (r *fakeAdoptionRepo) child(id string) domain.Child {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.children[id]
}

func (r *fakeAdoptionRepo) request(id string) (domain.AdoptionRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	return req, ok
}

func (r *fakeAdoptionRepo) requestCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

type fakeStore struct {
	repo     *fakeAdoptionRepo
	children map[string]domain.Child
	requests map[string]domain.AdoptionRequest
}

func (s *fakeStore) FindChild(id string, forUpdate bool) (*domain.Child, error) {
	c, ok := s.children[id]
	if !ok {
		return nil, domain.NotFound("Child not found")
	}
	return &c, nil
}

func (s *fakeStore) HasActiveRequest(userID, childID string) (bool, error) {
	for _, req := range s.requests {
		if req.UserID == userID && req.ChildID == childID && req.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateRequest(req *domain.AdoptionRequest) error {
	s.requests[req.ID] = *req
	return nil
}

func (s *fakeStore) FindRequest(id string, forUpdate bool) (*domain.AdoptionRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, domain.NotFound("Adoption request not found")
	}
	return &req, nil
}

func (s *fakeStore) UpdateRequestReview(id string, upd domain.ReviewUpdate) error {
	req, ok := s.requests[id]
	if !ok {
		return domain.NotFound("Adoption request not found")
	}
	reviewer := upd.ReviewerID
	at := upd.ReviewedAt
	req.Status = upd.Status
	req.AdminNotes = upd.AdminNotes
	req.ReviewedByID = &reviewer
	req.ReviewedAt = &at
	req.UpdatedAt = at
	s.requests[id] = req
	return nil
}

func (s *fakeStore) SetChildStatus(childID string, status domain.AdoptionStatus) error {
	if s.repo.failSetChild != nil {
		return s.repo.failSetChild
	}
	c, ok := s.children[childID]
	if !ok {
		return domain.NotFound("Child not found")
	}
	c.AdoptionStatus = status
	s.children[childID] = c
	return nil
}

func (s *fakeStore) LoadRequest(id string) (*domain.AdoptionRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, domain.NotFound("Adoption request not found")
	}
	if c, ok := s.children[req.ChildID]; ok {
		req.Child = &c
	}
	return &req, nil
}

// recordingLocker grants every lock at once and remembers the keys.
type recordingLocker struct {
	keys  []string
	fail  error
	keyMu sync.Mutex
}

func (l *recordingLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.fail != nil {
		return nil, l.fail
	}
	l.keyMu.Lock()
	l.keys = append(l.keys, key)
	l.keyMu.Unlock()
	return func() {}, nil
}

func (l *recordingLocker) locked() []string {
	l.keyMu.Lock()
	defer l.keyMu.Unlock()
	return append([]string(nil), l.keys...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.AdoptionEvent
	err    error
}

func (p *recordingPublisher) PublishAdoptionEvent(ctx context.Context, evt domain.AdoptionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) published() []domain.AdoptionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.AdoptionEvent(nil), p.events...)
}

// fakeChildRepo is a map-backed ChildRepo.
type fakeChildRepo struct {
	mu       sync.Mutex
	children map[string]domain.Child
	updates  []map[string]interface{}
	active   map[string]bool
	err      error
}

var _ domain.ChildRepo = (*fakeChildRepo)(nil)

func newFakeChildRepo(children ...domain.Child) *fakeChildRepo {
	r := &fakeChildRepo{children: make(map[string]domain.Child), active: make(map[string]bool)}
	for _, c := range children {
		r.children[c.ID] = c
	}
	return r
}

func (r *fakeChildRepo) Create(ctx context.Context, child *domain.Child) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.children[child.ID] = *child
	return nil
}

func (r *fakeChildRepo) FindByID(ctx context.Context, id string) (*domain.Child, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.children[id]
	if !ok {
		return nil, domain.NotFound("Child not found")
	}
	return &c, nil
}

func (r *fakeChildRepo) List(ctx context.Context, status domain.AdoptionStatus) ([]domain.Child, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Child
	for _, c := range r.children {
		if status == "" || c.AdoptionStatus == status {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeChildRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.children[id]
	if !ok {
		return domain.NotFound("Child not found")
	}
	r.updates = append(r.updates, fields)
	for k, v := range fields {
		switch k {
		case "name":
			c.Name = v.(string)
		case "age":
			c.Age = v.(int)
		case "gender":
			c.Gender = v.(string)
		case "adoption_status":
			switch st := v.(type) {
			case string:
				c.AdoptionStatus = domain.AdoptionStatus(st)
			case domain.AdoptionStatus:
				c.AdoptionStatus = st
			}
		}
	}
	r.children[id] = c
	return nil
}

func (r *fakeChildRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.children[id]; !ok {
		return domain.NotFound("Child not found")
	}
	if r.active[id] {
		return domain.InvalidState("Cannot delete a child with an active adoption request")
	}
	delete(r.children, id)
	return nil
}

type fakeDonationRepo struct {
	mu        sync.Mutex
	donations map[string]domain.Donation
	created   int
}

var _ domain.DonationRepo = (*fakeDonationRepo)(nil)

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{donations: make(map[string]domain.Donation)}
}

func (r *fakeDonationRepo) Create(ctx context.Context, d *domain.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
	r.donations[d.ID] = *d
	return nil
}

func (r *fakeDonationRepo) FindByID(ctx context.Context, id string) (*domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.donations[id]
	if !ok {
		return nil, domain.NotFound("Donation not found")
	}
	return &d, nil
}

func (r *fakeDonationRepo) List(ctx context.Context, donorID string) ([]domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Donation
	for _, d := range r.donations {
		if donorID == "" || d.DonorID == donorID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDonationRepo) UpdateReview(ctx context.Context, id string, status domain.DonationStatus, notes, reviewerID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.donations[id]
	if !ok {
		return domain.NotFound("Donation not found")
	}
	d.Status = status
	d.AdminNotes = notes
	d.ReviewedByID = &reviewerID
	d.ReviewedAt = &at
	r.donations[id] = d
	return nil
}

func (r *fakeDonationRepo) Stats(ctx context.Context) (*domain.DonationStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &domain.DonationStats{}
	for _, d := range r.donations {
		s.Total++
		switch d.Status {
		case domain.DonationPending:
			s.Pending++
		case domain.DonationApproved:
			s.Approved++
			if d.Type == domain.DonationMoney && d.Amount != nil {
				s.TotalAmount += *d.Amount
			}
		}
	}
	return s, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

var _ domain.UserRepo = (*fakeUserRepo)(nil)

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.Conflict("User already exists with this email")
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("User not found")
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.NotFound("User not found")
}

func (r *fakeUserRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.NotFound("User not found")
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "address":
			u.Address = v.(string)
		case "documents":
			u.Documents = v.(datatypes.JSONSlice[domain.UserDocument])
		}
	}
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type staticIssuer struct{}

func (staticIssuer) Issue(userID string, role domain.Role) (string, error) {
	return "token-" + userID + "-" + string(role), nil
}

type memFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut map[string]error
	deleted []string
}

var _ domain.FileStore = (*memFiles)(nil)

func newMemFiles() *memFiles {
	return &memFiles{objects: make(map[string][]byte), failPut: make(map[string]error)}
}

func (m *memFiles) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for suffix, err := range m.failPut {
		if strings.HasSuffix(key, suffix) {
			return err
		}
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memFiles) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	delete(m.objects, key)
	return nil
}

func (m *memFiles) URL(ctx context.Context, key string) (string, error) {
	return "https://files.test/" + key, nil
}

func (m *memFiles) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func upload(name, contentType string, size int) domain.Upload {
	return domain.Upload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(size),
		Body:        bytes.NewReader(make([]byte, size)),
	}
}

var (
	admin   = domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin}
	alice   = domain.Principal{UserID: "user-alice", Role: domain.RoleUser}
	bob     = domain.Principal{UserID: "user-bob", Role: domain.RoleUser}
	fixedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
