package inmemdb

import (
	"sort"

	"github.com/trezcool/shule/core/leave"
)

type leaveRepository struct {
	db *DB
}

var _ leave.Repository = (*leaveRepository)(nil)

func NewLeaveRepository(db *DB) *leaveRepository {
	return &leaveRepository{db: db}
}

func (repo *leaveRepository) CreateRequest(req leave.Request) (leave.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.leaves[req.ID] = &req
	return req, nil
}

func (repo *leaveRepository) GetRequestByID(id string) (leave.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if req, ok := repo.db.leaves[id]; ok {
		return *req, nil
	}
	return leave.Request{}, leave.ErrNotFound
}

func (repo *leaveRepository) QueryRequestsByStudent(studentID string) ([]leave.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.filter(func(r leave.Request) bool { return r.StudentID == studentID }), nil
}

func (repo *leaveRepository) QueryAllRequests() ([]leave.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.filter(func(leave.Request) bool { return true }), nil
}

func (repo *leaveRepository) UpdateRequest(req leave.Request) (leave.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.leaves[req.ID]; !ok {
		return leave.Request{}, leave.ErrNotFound
	}
	repo.db.leaves[req.ID] = &req
	return req, nil
}

func (repo *leaveRepository) filter(keep func(leave.Request) bool) []leave.Request {
	requests := make([]leave.Request, 0)
	for _, req := range repo.db.leaves {
		if keep(*req) {
			requests = append(requests, *req)
		}
	}
	// newest submissions first
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].SubmittedAt.After(requests[j].SubmittedAt)
	})
	return requests
}
