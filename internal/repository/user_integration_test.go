package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/resumecraft/gateway/internal/testutil"
)

// setupRepo connects to the store named by MONGO_URL, or skips.
func setupRepo(t *testing.T) *Repository {
	t.Helper()

	mongoURL := testutil.RequireEnv(t, "MONGO_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	repo, err := New(ctx, mongoURL, "resumecraft_test")
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close(context.Background())
	})

	return repo
}

func countUsers(t *testing.T, repo *Repository, email string) int64 {
	t.Helper()
	n, err := repo.users.CountDocuments(context.Background(), bson.M{"email": email})
	if err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	return n
}

func TestSignupUser_NewUser(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	email := testutil.UniqueEmail("new-user")
	saved, isNew, err := repo.SignupUser(ctx, testutil.NewTestUser(t, email))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !isNew {
		t.Error("expected isNew true for first signup")
	}

	if saved.Email != email {
		t.Errorf("expected email %s, got %s", email, saved.Email)
	}

	if saved.FirstName != "Test" || saved.LastName != "User" || saved.Provider != "google" {
		t.Errorf("unexpected profile fields: %+v", saved)
	}

	if saved.LastLogin.IsZero() {
		t.Error("expected lastLogin to be set")
	}

	if saved.CreatedAt.IsZero() {
		t.Error("expected createdAt to be set")
	}

	if n := countUsers(t, repo, email); n != 1 {
		t.Errorf("expected exactly one record, got %d", n)
	}
}

func TestSignupUser_ExistingUser(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	email := testutil.UniqueEmail("returning-user")
	first, isNew, err := repo.SignupUser(ctx, testutil.NewTestUser(t, email))
	if err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if !isNew {
		t.Fatal("expected first signup to create the record")
	}

	// Mongo stores timestamps at millisecond precision; make sure the second
	// lastLogin lands on a later instant.
	time.Sleep(10 * time.Millisecond)

	// A login attempt carrying a different profile must not overwrite the
	// stored one.
	again := testutil.NewTestUser(t, email)
	again.FirstName = "Changed"
	again.LastName = "Name"
	again.Provider = "github"

	second, isNew, err := repo.SignupUser(ctx, again)
	if err != nil {
		t.Fatalf("second signup failed: %v", err)
	}

	if isNew {
		t.Error("expected isNew false for returning user")
	}

	if !second.LastLogin.After(first.LastLogin) {
		t.Errorf("expected lastLogin to advance: first %v, second %v", first.LastLogin, second.LastLogin)
	}

	if second.FirstName != "Test" || second.LastName != "User" || second.Provider != "google" {
		t.Errorf("expected stored profile to be untouched, got %+v", second)
	}

	if second.CreatedAt != first.CreatedAt {
		t.Errorf("expected createdAt to be stable: first %v, second %v", first.CreatedAt, second.CreatedAt)
	}
}

func TestSignupUser_Idempotent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	email := testutil.UniqueEmail("idempotent")
	for i := 0; i < 3; i++ {
		if _, _, err := repo.SignupUser(ctx, testutil.NewTestUser(t, email)); err != nil {
			t.Fatalf("signup %d failed: %v", i, err)
		}
	}

	if n := countUsers(t, repo, email); n != 1 {
		t.Errorf("expected exactly one record after repeated signups, got %d", n)
	}
}

// Two concurrent first signups for the same email must converge on a single
// record. The atomic upsert plus the unique index on email guarantee this.
func TestSignupUser_ConcurrentNewEmail(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	email := testutil.UniqueEmail("concurrent")

	const callers = 2
	var wg sync.WaitGroup
	errs := make([]error, callers)
	isNews := make([]bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, isNews[i], errs[i] = repo.SignupUser(ctx, testutil.NewTestUser(t, email))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent signup %d failed: %v", i, err)
		}
	}

	created := 0
	for _, isNew := range isNews {
		if isNew {
			created++
		}
	}
	if created != 1 {
		t.Errorf("expected exactly one caller to create the record, got %d", created)
	}

	if n := countUsers(t, repo, email); n != 1 {
		t.Errorf("expected exactly one record after concurrent signups, got %d", n)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.FindUserByEmail(context.Background(), testutil.UniqueEmail("missing"))
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
