package dummydb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/edumanage/core/class"
)

type classRepository struct {
	db *classTable
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db.classes}
}

func (repo *classRepository) filter(match func(class.Class) bool) []class.Class {
	classes := make([]class.Class, 0, len(repo.db.table))
	for _, cls := range repo.db.table {
		if match(*cls) {
			classes = append(classes, *cls)
		}
	}
	return classes
}

func (repo *classRepository) CreateClass(_ context.Context, cls class.Class) (class.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cls.ID = primitive.NewObjectID()
	repo.db.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) QueryAllClasses(_ context.Context) ([]class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.filter(func(class.Class) bool { return true }), nil
}

func (repo *classRepository) FilterClassesByStatus(_ context.Context, status string) ([]class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.filter(func(cls class.Class) bool { return cls.Status == status }), nil
}

func (repo *classRepository) FilterClassesByTeacher(_ context.Context, email string) ([]class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.filter(func(cls class.Class) bool { return cls.TeacherEmail == email }), nil
}

func (repo *classRepository) GetClassByID(_ context.Context, id string) (class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return class.Class{}, class.ErrNotFound
	}
	if cls, ok := repo.db.table[oid]; ok {
		return *cls, nil
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) UpdateClassStatus(_ context.Context, id, from, to string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return class.ErrNotFound
	}
	cls, ok := repo.db.table[oid]
	if !ok || cls.Status != from {
		return class.ErrNotFound
	}
	cls.Status = to
	cls.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *classRepository) AddClassAssignment(_ context.Context, id string, a class.Assignment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return class.ErrNotFound
	}
	cls, ok := repo.db.table[oid]
	if !ok {
		return class.ErrNotFound
	}
	cls.Assignments = append(cls.Assignments, a)
	cls.UpdatedAt = time.Now().UTC()
	return nil
}

// IncrementClassEnroll mirrors the real store's atomic increment: the bump
// happens under the table lock, never as a read-then-write by the caller.
func (repo *classRepository) IncrementClassEnroll(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return class.ErrNotFound
	}
	cls, ok := repo.db.table[oid]
	if !ok {
		return errors.New("class enroll update lost")
	}
	cls.Enroll++
	cls.UpdatedAt = time.Now().UTC()
	return nil
}
