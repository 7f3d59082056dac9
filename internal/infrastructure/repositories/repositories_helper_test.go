package repositories

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createProfileTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE profiles (
		user_id TEXT PRIMARY KEY,
		full_name TEXT,
		bio TEXT,
		avatar_url TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE tutor_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		headline TEXT,
		subjects TEXT,
		hourly_rate REAL,
		timezone TEXT,
		verified BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE institution_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		institution_name TEXT,
		website TEXT,
		verified BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createVerificationTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE verification_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_type TEXT NOT NULL,
		status TEXT NOT NULL,
		rejection_reason TEXT,
		verified_by TEXT,
		verified_at DATETIME,
		re_verification_due_date DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE UNIQUE INDEX idx_verification_user_type ON verification_requests (user_id, user_type);`)
	mustExec(t, db, `CREATE TABLE verification_documents (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		document_type TEXT NOT NULL,
		document_name TEXT NOT NULL,
		document_url TEXT NOT NULL,
		storage_key TEXT NOT NULL,
		file_size INTEGER,
		mime_type TEXT,
		is_required BOOLEAN,
		uploaded_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE verification_references (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		name TEXT NOT NULL,
		title TEXT,
		organization TEXT,
		email TEXT NOT NULL,
		phone TEXT,
		relationship TEXT,
		can_contact BOOLEAN,
		verification_status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE verification_test_attempts (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		subject TEXT NOT NULL,
		score INTEGER,
		max_score INTEGER,
		passed BOOLEAN,
		attempted_at DATETIME
	);`)
}

func createAvailabilityTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE tutor_availability (
		id TEXT PRIMARY KEY,
		tutor_id TEXT NOT NULL,
		weekday INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		timezone TEXT,
		created_at DATETIME
	);`)
}
