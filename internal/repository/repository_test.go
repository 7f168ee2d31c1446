package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/templui/portfolio/internal/db/dbtest"
	"github.com/templui/portfolio/internal/model"
)

func TestUserRepository(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewUserRepository(conn)
	ctx := context.Background()

	hash := "hash"
	user := &model.User{ID: uuid.New().String(), Email: "owner@example.com", PasswordHash: &hash, CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := &model.User{ID: uuid.New().String(), Email: "owner@example.com", CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("duplicate Create error = %v, want ErrDuplicateEmail", err)
	}

	got, err := repo.ByEmail(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("ByEmail: %v", err)
	}
	if got.ID != user.ID || !got.HasPassword() {
		t.Errorf("ByEmail = %+v", got)
	}

	if _, err := repo.ByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("ByID(missing) error = %v, want ErrUserNotFound", err)
	}
}

func TestProfileRepositoryUpsert(t *testing.T) {
	conn := dbtest.Open(t)
	userID := dbtest.CreateUser(t, conn, "owner@example.com")
	repo := NewProfileRepository(conn)
	ctx := context.Background()

	if _, err := repo.ByUserID(ctx, userID); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("ByUserID before insert error = %v, want ErrProfileNotFound", err)
	}

	now := time.Now().UTC()
	first := &model.Profile{
		ID:             uuid.New().String(),
		UserID:         userID,
		DisplayName:    model.Optional("Ada"),
		FrontendSkills: model.StringList{"React"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}

	second := &model.Profile{
		ID:            uuid.New().String(),
		UserID:        userID,
		DisplayName:   model.Optional("Ada L."),
		Bio:           model.Optional("Builds things"),
		BackendSkills: model.StringList{"Go", "Postgres"},
		CreatedAt:     now.Add(time.Hour),
		UpdatedAt:     now.Add(time.Hour),
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	got, err := repo.ByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("ByUserID: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("id = %s, want original %s", got.ID, first.ID)
	}
	if model.Value(got.DisplayName) != "Ada L." || model.Value(got.Bio) != "Builds things" {
		t.Errorf("profile not overwritten: %+v", got)
	}
	if len(got.FrontendSkills) != 0 || len(got.BackendSkills) != 2 {
		t.Errorf("skills = %v / %v", got.FrontendSkills, got.BackendSkills)
	}
}

func TestProjectRepositoryOwnerScopedWrites(t *testing.T) {
	conn := dbtest.Open(t)
	owner := dbtest.CreateUser(t, conn, "owner@example.com")
	other := dbtest.CreateUser(t, conn, "other@example.com")
	repo := NewProjectRepository(conn)
	ctx := context.Background()

	base := time.Now().UTC()
	var ids []string
	for i, title := range []string{"first", "second", "third"} {
		p := &model.Project{
			ID:           uuid.New().String(),
			UserID:       owner,
			Title:        title,
			Description:  "desc",
			Technologies: model.StringList{"Go"},
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
			UpdatedAt:    base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
		ids = append(ids, p.ID)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 || list[0].Title != "third" || list[2].Title != "first" {
		t.Fatalf("List order = %v", titles(list))
	}

	stolen := *list[0]
	stolen.UserID = other
	stolen.Title = "hijacked"
	if err := repo.Update(ctx, &stolen); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Update by non-owner error = %v, want ErrProjectNotFound", err)
	}
	if err := repo.Delete(ctx, ids[0], other); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Delete by non-owner error = %v, want ErrProjectNotFound", err)
	}

	if err := repo.Delete(ctx, ids[1], owner); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ = repo.ListByUser(ctx, owner)
	for _, p := range list {
		if p.ID == ids[1] {
			t.Errorf("deleted project %s still listed", ids[1])
		}
	}
	if len(list) != 2 {
		t.Errorf("len = %d, want 2", len(list))
	}
}

func TestCertificateRepositoryAllowsDuplicateTitles(t *testing.T) {
	conn := dbtest.Open(t)
	owner := dbtest.CreateUser(t, conn, "owner@example.com")
	repo := NewCertificateRepository(conn)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		now := time.Now().UTC()
		c := &model.Certificate{
			ID:        uuid.New().String(),
			UserID:    owner,
			Title:     "AWS Certified",
			Issuer:    "Amazon",
			Date:      "March 2024",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("len = %d, want 2", len(list))
	}
}

func TestDSAProblemRepositoryUpdate(t *testing.T) {
	conn := dbtest.Open(t)
	owner := dbtest.CreateUser(t, conn, "owner@example.com")
	repo := NewDSAProblemRepository(conn)
	ctx := context.Background()

	now := time.Now().UTC()
	p := &model.DSAProblem{
		ID:              uuid.New().String(),
		UserID:          owner,
		Title:           "Two Sum",
		Platform:        "LeetCode",
		Difficulty:      model.DifficultyEasy,
		Category:        "Arrays",
		TimeComplexity:  "O(n)",
		SpaceComplexity: "O(n)",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p.Solved = true
	p.Notes = model.Optional("hash map")
	p.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.ByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if !got.Solved || model.Value(got.Notes) != "hash map" || got.Title != "Two Sum" {
		t.Errorf("ByID = %+v", got)
	}

	bad := *p
	bad.ID = uuid.New().String()
	bad.Difficulty = "Impossible"
	if err := repo.Create(ctx, &bad); err == nil {
		t.Error("Create with invalid difficulty succeeded, want CHECK violation")
	}
}

func titles(projects []*model.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Title
	}
	return out
}
