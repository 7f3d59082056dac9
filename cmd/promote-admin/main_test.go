package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"tutorlink.backend/internal/config"
	"tutorlink.backend/internal/domain/entities"
	"tutorlink.backend/internal/infrastructure/models"
)

type fakeRuntime struct {
	byEmail    *entities.User
	getErr     error
	promoteErr error
	promoted   *uuid.UUID
}

func (f *fakeRuntime) GetUserByEmail(context.Context, string) (*entities.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byEmail, nil
}

func (f *fakeRuntime) PromoteAdmin(_ context.Context, id uuid.UUID) (*entities.User, error) {
	if f.promoteErr != nil {
		return nil, f.promoteErr
	}
	f.promoted = &id
	return &entities.User{ID: id, Email: "ada@mail.com", Role: entities.UserRoleAdmin}, nil
}

func depsWith(rt promoteRuntime, out io.Writer) promoteDeps {
	return promoteDeps{
		loadEnv: func() error { return errors.New("no env") },
		loadCfg: func() *config.Config { return &config.Config{} },
		prepare: func(*config.Config) (promoteRuntime, io.Closer, error) {
			return rt, nil, nil
		},
		out: out,
	}
}

func TestResolveTarget(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	if _, err := resolveTarget(ctx, &fakeRuntime{}, "", ""); err == nil {
		t.Fatal("expected error when no target given")
	}
	if _, err := resolveTarget(ctx, &fakeRuntime{}, id.String(), "a@b.c"); err == nil {
		t.Fatal("expected error when both flags given")
	}
	if _, err := resolveTarget(ctx, &fakeRuntime{}, "bad-uuid", ""); err == nil {
		t.Fatal("expected error for invalid uuid")
	}

	got, err := resolveTarget(ctx, &fakeRuntime{}, " "+id.String()+" ", "")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s (%v)", id, got, err)
	}

	got, err = resolveTarget(ctx, &fakeRuntime{byEmail: &entities.User{ID: id}}, "", "Ada@Mail.com")
	if err != nil || got != id {
		t.Fatalf("expected %s by email, got %s (%v)", id, got, err)
	}

	if _, err := resolveTarget(ctx, &fakeRuntime{getErr: errors.New("not found")}, "", "x@y.z"); err == nil || !strings.Contains(err.Error(), "failed to load user") {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestRunPromoteAdmin_Branches(t *testing.T) {
	id := uuid.New()

	t.Run("flag parse error", func(t *testing.T) {
		if err := runPromoteAdmin([]string{"-unknown-flag"}, depsWith(&fakeRuntime{}, io.Discard)); err == nil {
			t.Fatal("expected parse error")
		}
	})

	t.Run("missing target", func(t *testing.T) {
		err := runPromoteAdmin(nil, depsWith(&fakeRuntime{}, io.Discard))
		if err == nil || !strings.Contains(err.Error(), "required") {
			t.Fatalf("expected required error, got %v", err)
		}
	})

	t.Run("prepare error", func(t *testing.T) {
		deps := depsWith(nil, io.Discard)
		deps.prepare = func(*config.Config) (promoteRuntime, io.Closer, error) {
			return nil, nil, errors.New("db failed")
		}
		err := runPromoteAdmin([]string{"-user-id", id.String()}, deps)
		if err == nil || !strings.Contains(err.Error(), "db failed") {
			t.Fatalf("expected prepare error, got %v", err)
		}
	})

	t.Run("promote error", func(t *testing.T) {
		err := runPromoteAdmin([]string{"-user-id", id.String()}, depsWith(&fakeRuntime{promoteErr: errors.New("boom")}, io.Discard))
		if err == nil || !strings.Contains(err.Error(), "failed to promote user") {
			t.Fatalf("expected promote error, got %v", err)
		}
	})

	t.Run("success output", func(t *testing.T) {
		var out bytes.Buffer
		rt := &fakeRuntime{}
		if err := runPromoteAdmin([]string{"-user-id", id.String()}, depsWith(rt, &out)); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if rt.promoted == nil || *rt.promoted != id {
			t.Fatalf("expected %s to be promoted", id)
		}
		if !strings.Contains(out.String(), "role=admin") || !strings.Contains(out.String(), "user_id="+id.String()) {
			t.Fatalf("unexpected output: %s", out.String())
		}
	})
}

func TestRunPromoteAdmin_AgainstDatabase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:promote_admin?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	id := uuid.New()
	now := time.Now().UTC()
	if err := db.Create(&models.User{ID: id, Email: "grace@mail.com", Name: "Grace", PasswordHash: "x", Role: "tutor", CreatedAt: now, UpdatedAt: now}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	var out bytes.Buffer
	deps := depsWith(nil, &out)
	deps.prepare = func(*config.Config) (promoteRuntime, io.Closer, error) {
		return newPromoteRuntime(db), nopCloser{}, nil
	}
	if err := runPromoteAdmin([]string{"-email", "grace@mail.com"}, deps); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var got models.User
	if err := db.First(&got, "id = ?", id).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Role != string(entities.UserRoleAdmin) {
		t.Fatalf("expected admin role, got %s", got.Role)
	}

	// promoting again is a no-op
	out.Reset()
	if err := runPromoteAdmin([]string{"-user-id", id.String()}, deps); err != nil {
		t.Fatalf("unexpected err on second run: %v", err)
	}
	if !strings.Contains(out.String(), "email=grace@mail.com") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestMain_ExitsWhenTargetMissing(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROMOTE_ADMIN") == "1" {
		os.Args = []string{"promote-admin"}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMain_ExitsWhenTargetMissing")
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROMOTE_ADMIN=1")
	if err := cmd.Run(); err == nil {
		t.Fatal("expected helper process to fail when no target is given")
	}
}

func TestMain_ExitsOnDBConnectionFailure(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROMOTE_ADMIN") == "2" {
		os.Args = []string{"promote-admin", "-user-id", os.Getenv("HELPER_USER_ID")}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMain_ExitsOnDBConnectionFailure")
	cmd.Env = append(os.Environ(),
		"GO_WANT_HELPER_PROMOTE_ADMIN=2",
		"HELPER_USER_ID="+uuid.NewString(),
		"DB_HOST=127.0.0.1",
		"DB_PORT=1",
		"DB_USER=postgres",
		"DB_PASSWORD=postgres",
		"DB_NAME=tutorlink",
		"DB_SSLMODE=disable",
	)
	if err := cmd.Run(); err == nil {
		t.Fatal("expected helper process to fail on DB connection")
	}
}
