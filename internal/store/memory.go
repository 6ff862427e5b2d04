package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// MemoryStore keeps users and the job catalog in process memory. It backs
// the server when neither Postgres nor MongoDB is configured, and the
// handler tests. Ids come from a monotonic counter; usernames and emails
// are indexed for uniqueness.
type MemoryStore struct {
	mu         sync.RWMutex
	nextUserID int64
	users      map[int64]*models.User
	byUsername map[string]int64
	byEmail    map[string]int64

	catalog models.Catalog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]*models.User),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[u.Username]; ok {
		return nil, models.ErrUsernameTaken
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return nil, models.ErrEmailTaken
	}

	s.nextUserID++
	created := *u
	created.ID = s.nextUserID
	created.CreatedAt = time.Now().UTC()
	s.users[created.ID] = &created
	s.byUsername[created.Username] = created.ID
	s.byEmail[created.Email] = created.ID

	out := created
	return &out, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *u
	return &out, nil
}

// SeedCatalog replaces the catalog.
func (s *MemoryStore) SeedCatalog(_ context.Context, c models.Catalog) error {
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) ListJobs(_ context.Context) ([]models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Job{}, s.catalog.Jobs...), nil
}

func (s *MemoryStore) GetJob(_ context.Context, id int64) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.catalog.Jobs {
		if j.ID == id {
			out := j
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryStore) ListSkills(_ context.Context) ([]models.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Skill{}, s.catalog.Skills...), nil
}

func (s *MemoryStore) SkillsForJob(_ context.Context, jobID int64) ([]models.JobSkillView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skills := make(map[int64]models.Skill, len(s.catalog.Skills))
	for _, sk := range s.catalog.Skills {
		skills[sk.ID] = sk
	}
	out := []models.JobSkillView{}
	for _, js := range s.catalog.JobSkills {
		if js.JobID != jobID {
			continue
		}
		if sk, ok := skills[js.SkillID]; ok {
			out = append(out, models.JobSkillView{Skill: sk, Frequency: js.Frequency})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frequency > out[j].Frequency })
	return out, nil
}

func (s *MemoryStore) SalaryByState(_ context.Context, state string) ([]models.SalaryRecord, error) {
	return s.salaries(func(r models.SalaryRecord) bool { return strings.EqualFold(r.State, state) }), nil
}

func (s *MemoryStore) SalaryByJob(_ context.Context, jobID int64) ([]models.SalaryRecord, error) {
	return s.salaries(func(r models.SalaryRecord) bool { return r.JobID == jobID }), nil
}

func (s *MemoryStore) salaries(keep func(models.SalaryRecord) bool) []models.SalaryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.SalaryRecord{}
	for _, r := range s.catalog.Salaries {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
