package users

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/lcanales/stockdeck-backend/pkg/db"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:users_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Role{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	seed := []models.Role{
		{ID: 1, Name: "Admin"},
		{ID: 2, Name: "Staff"},
		{ID: 3, Name: "Manager"},
		{ID: 4, Name: "Guest"},
	}
	if err := conn.Create(&seed).Error; err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}
	return db.NewFromGorm(conn)
}

func TestListJoinsRoleNames(t *testing.T) {
	ctx := context.Background()
	client := newTestDB(t)
	repo := NewRepository(client.DB())

	for _, seed := range []struct {
		username string
		roleID   int
	}{
		{username: "zoe", roleID: 1},
		{username: "amir", roleID: 3},
	} {
		if _, err := repo.Create(ctx, CreateUserDTO{
			Username:     seed.username,
			PasswordHash: "hash",
			RoleID:       seed.roleID,
		}); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}

	rows, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 users, got %d", len(rows))
	}
	// ordered by username
	if rows[0].Username != "amir" || rows[0].RoleName != "Manager" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if rows[1].Username != "zoe" || rows[1].RoleName != "Admin" {
		t.Fatalf("unexpected row %+v", rows[1])
	}
}

func TestRoleRepositoryFindAndList(t *testing.T) {
	ctx := context.Background()
	client := newTestDB(t)
	repo := NewRoleRepository(client.DB())

	role, err := repo.FindByID(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role.Name != "Manager" {
		t.Fatalf("expected Manager, got %s", role.Name)
	}

	roles, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roles) != 4 {
		t.Fatalf("expected 4 roles, got %d", len(roles))
	}
	if roles[0].ID != 1 || roles[3].ID != 4 {
		t.Fatalf("expected roles ordered by id, got %+v", roles)
	}
}
