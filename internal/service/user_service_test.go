package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"trackmyfood/internal/dto"
	"trackmyfood/internal/errors"
	"trackmyfood/internal/model"
)

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name          string
		req           *dto.RegisterRequest
		setupMock     func(*MockUserRepository)
		expectedError error
		check         func(*testing.T, *model.User)
	}{
		{
			name: "successful registration with defaults",
			req: &dto.RegisterRequest{
				Username: "alice",
				Email:    "a@x.com",
				Password: "Secr3t!",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.Equal(t, model.UnitMetric, u.UnitPreference)
				assert.Nil(t, u.ActivityLevel)
				assert.True(t, u.IsActive)
				assert.False(t, u.IsStaff)
				assert.NotEqual(t, "Secr3t!", u.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Secr3t!")))
			},
		},
		{
			name: "duplicate username",
			req: &dto.RegisterRequest{
				Username: "alice",
				Email:    "a2@x.com",
				Password: "Secr3t!",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)
			},
			expectedError: errors.ErrUsernameTaken,
		},
		{
			name: "unknown activity code",
			req: &dto.RegisterRequest{
				Username:      "bob",
				Email:         "b@x.com",
				Password:      "Secr3t!",
				ActivityLevel: "RUN",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByUsername", mock.Anything, "bob").Return(false, nil)
			},
			expectedError: errors.ErrInvalidChoice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)

			svc := NewUserService(repo, nil)
			user, err := svc.Register(context.Background(), tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, user)
				}
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateProfile_MergesPartialPatch(t *testing.T) {
	dob := model.NewDate(1990, 4, 2)
	stored := &model.User{
		ID:             1,
		Username:       "alice",
		Email:          "a@x.com",
		DOB:            &dob,
		UnitPreference: model.UnitMetric,
	}

	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(1)).Return(stored, nil)

	var saved *model.User
	repo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*model.User)
		}).Return(nil)

	height := decimal.NewFromInt(70)
	svc := NewUserService(repo, nil)
	updated, err := svc.UpdateProfile(context.Background(), 1, &dto.ProfileUpdate{Height: &height})

	assert.NoError(t, err)
	assert.True(t, updated.Height.Valid)
	assert.True(t, updated.Height.Decimal.Equal(height))
	// Untouched fields keep their prior values.
	assert.Equal(t, "a@x.com", saved.Email)
	assert.NotNil(t, saved.DOB)
	assert.Equal(t, dob.Format("2006-01-02"), saved.DOB.Format("2006-01-02"))
	assert.Equal(t, model.UnitMetric, saved.UnitPreference)
	repo.AssertExpectations(t)
}

func TestUserService_ChangePassword(t *testing.T) {
	stored := func(t *testing.T) *model.User {
		return &model.User{
			ID:           1,
			Username:     "alice",
			PasswordHash: hashPassword(t, "old-pass"),
		}
	}

	t.Run("wrong old password leaves hash untouched", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(1)).Return(stored(t), nil)

		svc := NewUserService(repo, nil)
		err := svc.ChangePassword(context.Background(), 1, "wrong", "new-pass")

		assert.ErrorIs(t, err, errors.ErrWrongPassword)
		repo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("correct old password stores a new hash", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(1)).Return(stored(t), nil)

		var newHash string
		repo.On("UpdatePasswordHash", mock.Anything, uint(1), mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				newHash = args.String(2)
			}).Return(nil)

		svc := NewUserService(repo, nil)
		err := svc.ChangePassword(context.Background(), 1, "old-pass", "new-pass")

		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-pass")))
		repo.AssertExpectations(t)
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	stored := func(t *testing.T) *model.User {
		return &model.User{
			ID:           1,
			Username:     "alice",
			PasswordHash: hashPassword(t, "Secr3t!"),
		}
	}

	t.Run("wrong password blocks deletion", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(1)).Return(stored(t), nil)

		svc := NewUserService(repo, nil)
		err := svc.DeleteAccount(context.Background(), 1, "wrong")

		assert.ErrorIs(t, err, errors.ErrWrongPassword)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("correct password hard-deletes", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(1)).Return(stored(t), nil)
		repo.On("Delete", mock.Anything, uint(1)).Return(nil)

		svc := NewUserService(repo, nil)
		assert.NoError(t, svc.DeleteAccount(context.Background(), 1, "Secr3t!"))
		repo.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(repo, nil)
		err := svc.DeleteAccount(context.Background(), 9, "Secr3t!")
		assert.ErrorIs(t, err, errors.ErrUserNotFound)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	staff := &model.User{ID: 1, Username: "admin", IsStaff: true}
	regular := &model.User{ID: 2, Username: "alice"}
	everyone := []model.User{*staff, *regular}

	t.Run("staff sees everyone", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(1)).Return(staff, nil)
		repo.On("List", mock.Anything).Return(everyone, nil)

		svc := NewUserService(repo, nil)
		users, err := svc.ListUsers(context.Background(), 1)

		assert.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("non-staff sees only themselves", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(2)).Return(regular, nil)

		svc := NewUserService(repo, nil)
		users, err := svc.ListUsers(context.Background(), 2)

		assert.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, "alice", users[0].Username)
		repo.AssertNotCalled(t, "List", mock.Anything)
	})
}
