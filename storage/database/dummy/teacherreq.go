package dummydb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/edumanage/core/teacherreq"
)

type teacherReqRepository struct {
	db *teacherReqTable
}

var _ teacherreq.Repository = (*teacherReqRepository)(nil) // interface compliance check

func NewTeacherRequestRepository(db *DB) teacherreq.Repository {
	return &teacherReqRepository{db: db.teacherReqs}
}

func (repo *teacherReqRepository) CreateRequest(_ context.Context, req teacherreq.Request) (teacherreq.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	req.ID = primitive.NewObjectID()
	repo.db.table[req.ID] = &req
	return req, nil
}

func (repo *teacherReqRepository) QueryAllRequests(_ context.Context) ([]teacherreq.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reqs := make([]teacherreq.Request, 0, len(repo.db.table))
	for _, req := range repo.db.table {
		reqs = append(reqs, *req)
	}
	return reqs, nil
}

func (repo *teacherReqRepository) GetRequestByID(_ context.Context, id string) (teacherreq.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return teacherreq.Request{}, teacherreq.ErrNotFound
	}
	if req, ok := repo.db.table[oid]; ok {
		return *req, nil
	}
	return teacherreq.Request{}, teacherreq.ErrNotFound
}

func (repo *teacherReqRepository) GetRequestByEmail(_ context.Context, email string) (teacherreq.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var latest *teacherreq.Request
	for _, req := range repo.db.table {
		if req.Email == email && (latest == nil || req.CreatedAt.After(latest.CreatedAt)) {
			latest = req
		}
	}
	if latest == nil {
		return teacherreq.Request{}, teacherreq.ErrNotFound
	}
	return *latest, nil
}

func (repo *teacherReqRepository) UpdateRequestStatus(_ context.Context, id, status, role string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return teacherreq.ErrNotFound
	}
	req, ok := repo.db.table[oid]
	if !ok {
		return teacherreq.ErrNotFound
	}
	req.Status = status
	if role != "" {
		req.Role = role
	}
	req.UpdatedAt = time.Now().UTC()
	return nil
}
