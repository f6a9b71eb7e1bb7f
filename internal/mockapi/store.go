package mockapi

import (
	"sync"

	"github.com/finatech/onboard/internal/api"
	"github.com/google/uuid"
)

// Store records what the mock received.
type Store struct {
	mu          sync.Mutex
	endUsers    map[string]api.EndUserRequest
	addresses   []api.AddressRequest
	financings  []api.FinancingRequest
	occupations []api.OccupationRequest
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{endUsers: make(map[string]api.EndUserRequest)}
}

func (s *Store) createEndUser(req api.EndUserRequest) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.endUsers[id] = req
	return id
}

func (s *Store) knows(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.endUsers[id]
	return ok
}

func (s *Store) addAddress(req api.AddressRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = append(s.addresses, req)
}

func (s *Store) addFinancing(req api.FinancingRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.financings = append(s.financings, req)
}

func (s *Store) addOccupation(req api.OccupationRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.occupations = append(s.occupations, req)
}

// EndUser returns a created end user.
func (s *Store) EndUser(id string) (api.EndUserRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.endUsers[id]
	return u, ok
}

// EndUserCount is the number of end users created.
func (s *Store) EndUserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.endUsers)
}

// Addresses returns the recorded address submissions.
func (s *Store) Addresses() []api.AddressRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.AddressRequest(nil), s.addresses...)
}

// Financings returns the recorded financing submissions, approved or not.
func (s *Store) Financings() []api.FinancingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.FinancingRequest(nil), s.financings...)
}

// Occupations returns the recorded occupation submissions.
func (s *Store) Occupations() []api.OccupationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.OccupationRequest(nil), s.occupations...)
}
