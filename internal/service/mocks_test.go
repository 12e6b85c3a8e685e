package service

import (
	"context"
	"sort"

	"github.com/vitapredict/obesity-backend/internal/models"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

// Mock implementations for testing
type MockUserRepository struct {
	users           map[int64]*models.User
	usersByUsername map[string]*models.User
	usersByEmail    map[string]*models.User
	nextID          int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:           make(map[int64]*models.User),
		usersByUsername: make(map[string]*models.User),
		usersByEmail:    make(map[string]*models.User),
		nextID:          1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = m.nextID
	m.nextID++

	m.users[user.ID] = user
	m.usersByUsername[user.Username] = user
	m.usersByEmail[user.Email] = user

	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	return user, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := m.usersByUsername[username]
	if !ok {
		return nil, utils.NewNotFoundError("User", username)
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, utils.NewNotFoundError("User", email)
	}
	return user, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}

	delete(m.usersByUsername, user.Username)
	delete(m.usersByEmail, user.Email)
	delete(m.users, id)

	return nil
}

func (m *MockUserRepository) List(ctx context.Context, page, pageSize int) ([]*models.User, int, error) {
	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	start := (page - 1) * pageSize
	var result []*models.User
	for i := start; i < len(ids) && i < start+pageSize; i++ {
		result = append(result, m.users[ids[i]])
	}
	return result, len(m.users), nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.IsAdmin = isAdmin
	return nil
}

func (m *MockUserRepository) SetActive(ctx context.Context, id int64, isActive bool) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.IsActive = isActive
	return nil
}

func (m *MockUserRepository) GetStats(ctx context.Context) (total, active, admins int, err error) {
	for _, user := range m.users {
		total++
		if user.IsActive {
			active++
		}
		if user.IsAdmin {
			admins++
		}
	}
	return total, active, admins, nil
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := m.usersByUsername[username]
	return ok, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.usersByEmail[email]
	return ok, nil
}

type MockPredictionRepository struct {
	predictions map[int64]*models.Prediction
	nextID      int64
}

func NewMockPredictionRepository() *MockPredictionRepository {
	return &MockPredictionRepository{
		predictions: make(map[int64]*models.Prediction),
		nextID:      1,
	}
}

func (m *MockPredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	prediction.ID = m.nextID
	m.nextID++
	m.predictions[prediction.ID] = prediction
	return nil
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, id int64) (*models.Prediction, error) {
	prediction, ok := m.predictions[id]
	if !ok {
		return nil, utils.NewNotFoundError("Prediction", id)
	}
	return prediction, nil
}

func (m *MockPredictionRepository) GetByUserID(ctx context.Context, userID int64, page, pageSize int) ([]*models.Prediction, int, error) {
	var owned []*models.Prediction
	for _, prediction := range m.predictions {
		if prediction.UserID == userID {
			owned = append(owned, prediction)
		}
	}
	// Newest first, matching the real repository ordering
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID > owned[j].ID })

	total := len(owned)
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return owned[start:end], total, nil
}

func (m *MockPredictionRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	count := 0
	for _, prediction := range m.predictions {
		if prediction.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MockPredictionRepository) Count(ctx context.Context) (int, error) {
	return len(m.predictions), nil
}

func (m *MockPredictionRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	var deleted int64
	for id, prediction := range m.predictions {
		if prediction.UserID == userID {
			delete(m.predictions, id)
			deleted++
		}
	}
	return deleted, nil
}
