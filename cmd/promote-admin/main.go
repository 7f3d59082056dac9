package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"tutorlink.backend/internal/config"
	"tutorlink.backend/internal/domain/entities"
	"tutorlink.backend/internal/infrastructure/datasources/postgres"
	"tutorlink.backend/internal/infrastructure/repositories"
	"tutorlink.backend/internal/usecases"
)

var openPromoteDB = func(cfg config.DatabaseConfig) (*gorm.DB, *sql.DB, error) {
	conn, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := postgres.OpenGorm(conn)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return db, conn, nil
}

type promoteRuntime interface {
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	PromoteAdmin(ctx context.Context, userID uuid.UUID) (*entities.User, error)
}

type promoteDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (promoteRuntime, io.Closer, error)
	out     io.Writer
}

type promoteRuntimeImpl struct {
	userRepo *repositories.UserRepository
	auth     *usecases.AuthUsecase
}

func (r promoteRuntimeImpl) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.userRepo.GetByEmail(ctx, email)
}

func (r promoteRuntimeImpl) PromoteAdmin(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return r.auth.PromoteAdmin(ctx, userID)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newPromoteRuntime(db *gorm.DB) promoteRuntimeImpl {
	userRepo := repositories.NewUserRepository(db)
	auth := usecases.NewAuthUsecase(
		repositories.NewUnitOfWork(db),
		userRepo,
		repositories.NewProfileRepository(db),
		nil,
		nil,
	)
	return promoteRuntimeImpl{userRepo: userRepo, auth: auth}
}

func defaultPromoteDeps() promoteDeps {
	return promoteDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (promoteRuntime, io.Closer, error) {
			db, conn, err := openPromoteDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			return newPromoteRuntime(db), conn, nil
		},
		out: os.Stdout,
	}
}

// resolveTarget picks the user to promote from exactly one of the two flags
func resolveTarget(ctx context.Context, rt promoteRuntime, userID, email string) (uuid.UUID, error) {
	userID = strings.TrimSpace(userID)
	email = strings.ToLower(strings.TrimSpace(email))
	switch {
	case userID == "" && email == "":
		return uuid.Nil, fmt.Errorf("one of --user-id or --email is required")
	case userID != "" && email != "":
		return uuid.Nil, fmt.Errorf("--user-id and --email are mutually exclusive")
	case userID != "":
		return uuid.Parse(userID)
	}

	user, err := rt.GetUserByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load user %s: %w", email, err)
	}
	return user.ID, nil
}

func runPromoteAdmin(args []string, deps promoteDeps) error {
	if deps.loadEnv == nil {
		deps.loadEnv = func() error { return godotenv.Load() }
	}
	if deps.loadCfg == nil {
		deps.loadCfg = config.Load
	}
	if deps.prepare == nil {
		deps.prepare = defaultPromoteDeps().prepare
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	fs := flag.NewFlagSet("promote-admin", flag.ContinueOnError)
	userIDFlag := fs.String("user-id", "", "target user UUID")
	emailFlag := fs.String("email", "", "target user email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userIDFlag == "" && *emailFlag == "" {
		return fmt.Errorf("one of --user-id or --email is required")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	rt, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	userID, err := resolveTarget(ctx, rt, *userIDFlag, *emailFlag)
	if err != nil {
		return err
	}

	user, err := rt.PromoteAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to promote user %s: %w", userID, err)
	}

	_, _ = fmt.Fprintln(deps.out, "User now has the admin role")
	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", user.ID.String())
	_, _ = fmt.Fprintf(deps.out, "email=%s\n", user.Email)
	_, _ = fmt.Fprintf(deps.out, "role=%s\n", user.Role)
	return nil
}

func main() {
	if err := runPromoteAdmin(os.Args[1:], defaultPromoteDeps()); err != nil {
		log.Fatal(err)
	}
}
