package dao

import (
	"sort"
	"sync"
	"time"

	"knoxshield/internal/models"
	apperrors "knoxshield/pkg/errors"
)

// Store bundles the DAOs the services need.
type Store struct {
	Operations  OperationDAO
	Servers     ServerDAO
	Preferences PreferenceDAO
}

// NewMemoryStore returns in-memory DAOs. Tests use it directly.
func NewMemoryStore() *Store {
	return &Store{
		Operations:  NewMemoryOperationDAO(),
		Servers:     NewMemoryServerDAO(),
		Preferences: NewMemoryPreferenceDAO(),
	}
}

// NewLocalStore is used when no database is configured. Operations and
// servers live in memory and preferences go to prefsFile.
func NewLocalStore(prefsFile string) *Store {
	return &Store{
		Operations:  NewMemoryOperationDAO(),
		Servers:     NewMemoryServerDAO(),
		Preferences: NewFilePreferenceDAO(prefsFile),
	}
}

type memoryOperationDAO struct {
	mu  sync.RWMutex
	ops map[string]*models.Operation
	seq map[string]int
	n   int
}

func NewMemoryOperationDAO() OperationDAO {
	return &memoryOperationDAO{
		ops: make(map[string]*models.Operation),
		seq: make(map[string]int),
	}
}

func (m *memoryOperationDAO) SaveOperation(op *models.Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UnixMilli()
	if op.CreatedAt == 0 {
		op.CreatedAt = now
	}
	op.UpdatedAt = now
	m.ops[op.ID] = op.Clone()
	if _, ok := m.seq[op.ID]; !ok {
		m.n++
		m.seq[op.ID] = m.n
	}
	return nil
}

func (m *memoryOperationDAO) UpdateOperation(op *models.Operation) error {
	return m.SaveOperation(op)
}

func (m *memoryOperationDAO) GetOperation(id string) (*models.Operation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	op, ok := m.ops[id]
	if !ok {
		return nil, apperrors.ErrOperationNotFound
	}
	return op.Clone(), nil
}

func (m *memoryOperationDAO) sorted() []models.Operation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Operation, 0, len(m.ops))
	for _, op := range m.ops {
		out = append(out, *op.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return m.seq[out[i].ID] > m.seq[out[j].ID]
	})
	return out
}

func (m *memoryOperationDAO) ListOperations() ([]models.Operation, error) {
	ops := m.sorted()
	if len(ops) > HistoryLimit {
		ops = ops[:HistoryLimit]
	}
	return ops, nil
}

func (m *memoryOperationDAO) ListOperationsWithPagination(page, limit int) ([]models.Operation, int64, error) {
	ops := m.sorted()
	page, limit = normalizePage(page, limit)

	total := int64(len(ops))
	start := (page - 1) * limit
	if start >= len(ops) {
		return []models.Operation{}, total, nil
	}
	end := start + limit
	if end > len(ops) {
		end = len(ops)
	}
	return ops[start:end], total, nil
}

func (m *memoryOperationDAO) DeleteOperation(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ops[id]; !ok {
		return apperrors.ErrOperationNotFound
	}
	delete(m.ops, id)
	delete(m.seq, id)
	return nil
}

type memoryServerDAO struct {
	mu      sync.RWMutex
	servers []models.VPNServer
}

func NewMemoryServerDAO() ServerDAO {
	return &memoryServerDAO{}
}

func (m *memoryServerDAO) SaveServer(server *models.VPNServer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.servers {
		if m.servers[i].ID == server.ID {
			m.servers[i] = *server
			return nil
		}
	}
	m.servers = append(m.servers, *server)
	return nil
}

func (m *memoryServerDAO) GetServer(id string) (*models.VPNServer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.servers {
		if s.ID == id {
			server := s
			return &server, nil
		}
	}
	return nil, apperrors.ErrServerNotFound
}

func (m *memoryServerDAO) ListServers() ([]models.VPNServer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.VPNServer{}, m.servers...), nil
}

func (m *memoryServerDAO) DeleteServer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.servers {
		if s.ID == id {
			m.servers = append(m.servers[:i], m.servers[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrServerNotFound
}

type memoryPreferenceDAO struct {
	mu    sync.RWMutex
	prefs map[string]string
}

func NewMemoryPreferenceDAO() PreferenceDAO {
	return &memoryPreferenceDAO{prefs: make(map[string]string)}
}

func (m *memoryPreferenceDAO) GetPreferences() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.prefs))
	for k, v := range m.prefs {
		out[k] = v
	}
	return out, nil
}

func (m *memoryPreferenceDAO) SetPreference(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[key] = value
	return nil
}
