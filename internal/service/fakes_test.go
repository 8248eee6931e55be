package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"lovemirror-backend/internal/model"
	"lovemirror-backend/internal/repository"
	"lovemirror-backend/internal/scoring"
)

// memStore implements every repository interface in memory.
type memStore struct {
	mu            sync.Mutex
	profiles      map[string]model.Profile
	histories     []model.AssessmentHistory
	assessors     map[string]model.ExternalAssessor
	results       []model.ExternalAssessmentResult
	invitations   map[string]model.PartnerInvitation
	relationships map[string]model.Relationship
	compatibility []model.CompatibilityScore

	// failWrite, when set, fails the next transactional write without
	// applying it.
	failWrite error
}

var (
	_ repository.ProfileRepository        = (*memStore)(nil)
	_ repository.AssessmentRepository     = (*memStore)(nil)
	_ repository.AssessorRepository       = (*memStore)(nil)
	_ repository.ExternalResultRepository = (*memStore)(nil)
	_ repository.RelationshipRepository   = (*memStore)(nil)
	_ repository.CompatibilityRepository  = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		profiles:      make(map[string]model.Profile),
		assessors:     make(map[string]model.ExternalAssessor),
		invitations:   make(map[string]model.PartnerInvitation),
		relationships: make(map[string]model.Relationship),
	}
}

func (m *memStore) GetProfile(_ context.Context, id string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) SaveProfile(_ context.Context, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = *p
	return nil
}

func (m *memStore) CreateAssessment(_ context.Context, h *model.AssessmentHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = h.BeforeCreate((*gorm.DB)(nil))
	m.histories = append(m.histories, *h)
	return nil
}

func (m *memStore) GetAssessment(_ context.Context, id string) (*model.AssessmentHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.histories {
		if h.ID == id {
			return &h, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetAssessments(_ context.Context, userID string, t scoring.AssessmentType, limit int) ([]model.AssessmentHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AssessmentHistory
	for _, h := range m.histories {
		if h.UserID == userID && (t == "" || h.AssessmentType == t) {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) GetLatestAssessment(ctx context.Context, userID string, t scoring.AssessmentType) (*model.AssessmentHistory, error) {
	all, _ := m.GetAssessments(ctx, userID, t, 1)
	if len(all) == 0 {
		return nil, repository.ErrNotFound
	}
	return &all[0], nil
}

func (m *memStore) CreateAssessor(_ context.Context, a *model.ExternalAssessor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = a.BeforeCreate(nil)
	m.assessors[a.ID] = *a
	return nil
}

func (m *memStore) GetAssessor(_ context.Context, id string) (*model.ExternalAssessor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (m *memStore) GetAssessorByCode(_ context.Context, code string) (*model.ExternalAssessor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assessors {
		if a.InvitationCode == code {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetAssessorsByUser(_ context.Context, userID string) ([]model.ExternalAssessor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ExternalAssessor
	for _, a := range m.assessors {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) UpdateAssessor(_ context.Context, a *model.ExternalAssessor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessors[a.ID] = *a
	return nil
}

func (m *memStore) CompleteAssessor(_ context.Context, a *model.ExternalAssessor, r *model.ExternalAssessmentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failWrite; err != nil {
		m.failWrite = nil
		return err
	}
	stored, ok := m.assessors[a.ID]
	if !ok || stored.Status != model.AssessorPending {
		return repository.ErrConflict
	}
	stored.Status = model.AssessorCompleted
	stored.CompletedAt = a.CompletedAt
	m.assessors[a.ID] = stored
	a.Status = model.AssessorCompleted
	_ = r.BeforeCreate(nil)
	m.results = append(m.results, *r)
	return nil
}

func (m *memStore) DeleteAssessor(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assessors[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.assessors, id)
	return nil
}

func (m *memStore) CreateResult(_ context.Context, r *model.ExternalAssessmentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = r.BeforeCreate(nil)
	m.results = append(m.results, *r)
	return nil
}

func (m *memStore) GetResultsByUser(_ context.Context, userID string, t scoring.AssessmentType) ([]model.ExternalAssessmentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ExternalAssessmentResult
	for _, r := range m.results {
		if r.UserID == userID && (t == "" || r.AssessmentType == t) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) UpdateGaps(_ context.Context, ids []string, overall float64, gaps model.CategoryGaps) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for i := range m.results {
		if want[m.results[i].ID] {
			score := overall
			m.results[i].DelusionalScore = &score
			m.results[i].CategoryGaps = gaps
		}
	}
	return nil
}

func (m *memStore) CreateInvitation(_ context.Context, inv *model.PartnerInvitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = inv.BeforeCreate(nil)
	m.invitations[inv.ID] = *inv
	return nil
}

func (m *memStore) GetInvitationByCode(_ context.Context, code string) (*model.PartnerInvitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invitations {
		if inv.InvitationCode == code {
			return &inv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetPendingInvitations(_ context.Context, senderID string) ([]model.PartnerInvitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PartnerInvitation
	for _, inv := range m.invitations {
		if inv.SenderID == senderID && inv.Status == model.InvitationPending {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memStore) UpdateInvitation(_ context.Context, inv *model.PartnerInvitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitations[inv.ID] = *inv
	return nil
}

func (m *memStore) AcceptInvitation(_ context.Context, inv *model.PartnerInvitation, rel *model.Relationship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failWrite; err != nil {
		m.failWrite = nil
		return err
	}
	if stored, ok := m.invitations[inv.ID]; !ok || stored.Status != model.InvitationPending {
		return repository.ErrConflict
	}
	m.invitations[inv.ID] = *inv
	_ = rel.BeforeCreate(nil)
	m.relationships[rel.ID] = *rel
	return nil
}

func (m *memStore) GetRelationship(_ context.Context, id string) (*model.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.relationships[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *memStore) GetRelationshipsByUser(_ context.Context, userID string) ([]model.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Relationship
	for _, r := range m.relationships {
		if r.Includes(userID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) GetActiveRelationshipBetween(_ context.Context, a, b string) (*model.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.relationships {
		if r.Status == model.RelationshipActive && r.Includes(a) && r.Includes(b) {
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) CreateCompatibility(_ context.Context, c *model.CompatibilityScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = c.BeforeCreate(nil)
	m.compatibility = append(m.compatibility, *c)
	return nil
}

func (m *memStore) GetCompatibilities(_ context.Context, relationshipID string) ([]model.CompatibilityScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CompatibilityScore
	for _, c := range m.compatibility {
		if c.RelationshipID == relationshipID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AnalysisDate.Before(out[j].AnalysisDate) })
	return out, nil
}

func (m *memStore) GetLatestCompatibility(_ context.Context, relationshipID string) (*model.CompatibilityScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.CompatibilityScore
	for i := range m.compatibility {
		c := m.compatibility[i]
		if c.RelationshipID == relationshipID && (latest == nil || !c.AnalysisDate.Before(latest.AnalysisDate)) {
			latest = &c
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

// recordingBus collects published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []string
	data   []interface{}
}

func (b *recordingBus) Publish(event string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	b.data = append(b.data, data)
}

// fakeClock advances one minute per reading.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fixture wires every service against one memStore.
type fixture struct {
	store         *memStore
	bus           *recordingBus
	clock         *fakeClock
	assessments   AssessmentService
	assessors     AssessorService
	delusional    DelusionalService
	partners      PartnerService
	compatibility CompatibilityService
	profiles      ProfileService
}

func newFixture() *fixture {
	return newFixtureWithScorer(scoring.Default())
}

func newFixtureWithScorer(scorer *scoring.Scorer) *fixture {
	store := newMemStore()
	bus := &recordingBus{}
	clock := newFakeClock()
	log := zap.NewNop()

	assessments := NewAssessmentService(scorer, store, store, bus, log)
	assessments.(*assessmentService).now = clock.Now
	assessors := NewAssessorService(scorer, assessments, store, store, store, bus, log)
	assessors.(*assessorService).now = clock.Now
	partners := NewPartnerService(store, store, store, bus, log)
	partners.(*partnerService).now = clock.Now
	compatibility := NewCompatibilityService(scorer, store, store, store, log)
	compatibility.(*compatibilityService).now = clock.Now

	return &fixture{
		store:         store,
		bus:           bus,
		clock:         clock,
		assessments:   assessments,
		assessors:     assessors,
		delusional:    NewDelusionalService(scorer, store, store, log),
		partners:      partners,
		compatibility: compatibility,
		profiles:      NewProfileService(store),
	}
}

func (f *fixture) addProfile(id, gender, region, culture string) {
	f.store.profiles[id] = model.Profile{ID: id, Name: "User " + id, Gender: gender, Region: region, CulturalContext: culture}
}

// answers rates every question of t; rate picks the score per category.
func answers(t scoring.AssessmentType, rate func(category string) float64) []scoring.Response {
	var out []scoring.Response
	for _, q := range scoring.DefaultCatalog().Questions(t) {
		out = append(out, scoring.Response{QuestionID: q.ID, Score: rate(q.Category)})
	}
	return out
}

func flat(score float64) func(string) float64 {
	return func(string) float64 { return score }
}
