package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockTaskRepo is a mock implementation of task.Repository.
type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*task.Task, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) NextPosition(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	args := m.Called(ctx, userID, date)
	return args.Int(0), args.Error(1)
}

func (m *mockTaskRepo) UpdatePosition(ctx context.Context, userID, id uuid.UUID, position int) error {
	args := m.Called(ctx, userID, id, position)
	return args.Error(0)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeUnitOfWork passes the context through and records the outcome.
type fakeUnitOfWork struct {
	committed  bool
	rolledBack bool
}

func (f *fakeUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (f *fakeUnitOfWork) Commit(ctx context.Context) error {
	f.committed = true
	return nil
}
func (f *fakeUnitOfWork) Rollback(ctx context.Context) error {
	f.rolledBack = true
	return nil
}

// capturePublisher records published routing keys.
type capturePublisher struct {
	keys []string
}

func (c *capturePublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	c.keys = append(c.keys, routingKey)
	return nil
}

func (c *capturePublisher) Close() error { return nil }
