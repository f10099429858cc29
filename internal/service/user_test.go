package service

import (
	"context"
	"testing"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/session"
	"github.com/gschargev/giftdesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDomain    = "@gschargev.co.kr"
	testSeedAdmin = "jhkang@gschargev.co.kr"
)

func seededUsers() []domain.User {
	return []domain.User{
		{Email: testSeedAdmin, Name: "강정훈", IsAdmin: true},
		{Email: "kim@gschargev.co.kr", Name: "김철수"},
	}
}

func newUserService(mem *store.Memory) UserService {
	return NewUserService(mem, discard(), testDomain, testSeedAdmin)
}

func TestUserService_AddUser(t *testing.T) {
	mem := store.NewMemory()
	mem.Seed(seededUsers(), nil, nil)
	sess := adminSession(session.State{Users: seededUsers()})
	svc := newUserService(mem)

	user, err := svc.AddUser(context.Background(), sess, " Lee@GSChargeV.co.kr ", " 이영희 ")
	require.NoError(t, err)

	assert.Equal(t, "lee@gschargev.co.kr", user.Email)
	assert.Equal(t, "이영희", user.Name)
	assert.False(t, user.IsAdmin)
	assert.Len(t, sess.Snapshot().Users, 3)
}

func TestUserService_AddUser_RejectsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		userName string
		wantCode string
	}{
		{"foreign domain", "kim@example.com", "김철수", domain.EINVALID},
		{"empty name", "new@gschargev.co.kr", "  ", domain.EINVALID},
		{"duplicate", "KIM@gschargev.co.kr", "김철수", domain.ECONFLICT},
	}

	mem := store.NewMemory()
	mem.Seed(seededUsers(), nil, nil)
	svc := newUserService(mem)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := adminSession(session.State{Users: seededUsers()})
			_, err := svc.AddUser(context.Background(), sess, tt.email, tt.userName)
			assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
		})
	}
	assert.Zero(t, mem.WriteUserCalls)
}

func TestUserService_DeleteUser(t *testing.T) {
	mem := store.NewMemory()
	mem.Seed(seededUsers(), nil, nil)
	sess := adminSession(session.State{Users: seededUsers()})
	svc := newUserService(mem)

	require.NoError(t, svc.DeleteUser(context.Background(), sess, "kim@gschargev.co.kr"))
	assert.Len(t, sess.Snapshot().Users, 1)
}

func TestUserService_DeleteUser_SeedAdminProtected(t *testing.T) {
	mem := store.NewMemory()
	mem.Seed(seededUsers(), nil, nil)
	sess := adminSession(session.State{Users: seededUsers()})
	svc := newUserService(mem)

	err := svc.DeleteUser(context.Background(), sess, " JHKang@GSChargeV.co.kr ")
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))
	assert.Zero(t, mem.WriteUserCalls)
}

func TestUserService_ToggleAdmin(t *testing.T) {
	mem := store.NewMemory()
	mem.Seed(seededUsers(), nil, nil)
	sess := adminSession(session.State{Users: seededUsers()})
	svc := newUserService(mem)

	user, err := svc.ToggleAdmin(context.Background(), sess, "kim@gschargev.co.kr")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	// The seed admin can never be demoted.
	_, err = svc.ToggleAdmin(context.Background(), sess, testSeedAdmin)
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))
}
