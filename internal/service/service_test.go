package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/templui/portfolio/internal/cache"
	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/db/dbtest"
	"github.com/templui/portfolio/internal/markdown"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/realtime"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/storage"
	"github.com/templui/portfolio/internal/validation"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e realtime.Event) error {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) last() realtime.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return realtime.Event{}
	}
	return p.events[len(p.events)-1]
}

type fixture struct {
	owner        *model.User
	other        *model.User
	store        *storage.Memory
	events       *recordingPublisher
	profiles     *ProfileService
	projects     *ProjectService
	certificates *CertificateService
	problems     *DSAProblemService
	portfolio    *PortfolioService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn := dbtest.Open(t)
	ownerID := dbtest.CreateUser(t, conn, "owner@example.com")
	otherID := dbtest.CreateUser(t, conn, "other@example.com")

	store := storage.NewMemory("https://cdn.example.com")
	events := &recordingPublisher{}
	query := cache.NewQuery(cache.NewMemory(), time.Minute)
	files := NewFileService(store)

	f := &fixture{
		owner:        &model.User{ID: ownerID, Email: "owner@example.com"},
		other:        &model.User{ID: otherID, Email: "other@example.com"},
		store:        store,
		events:       events,
		profiles:     NewProfileService(repository.NewProfileRepository(conn), files, query, events),
		projects:     NewProjectService(repository.NewProjectRepository(conn), files, query, events),
		certificates: NewCertificateService(repository.NewCertificateRepository(conn), files, query, events),
		problems:     NewDSAProblemService(repository.NewDSAProblemRepository(conn), query, events),
	}
	f.profiles.SetDefaultOwner(ownerID)
	f.portfolio = NewPortfolioService(f.profiles, f.projects, f.certificates, f.problems, markdown.NewParser())
	return f
}

func (f *fixture) as(user *model.User) context.Context {
	return ctxkeys.WithUser(context.Background(), user)
}

func projectInput(title string) model.ProjectInput {
	return model.ProjectInput{
		Title:        title,
		Description:  "A **fast** thing",
		Technologies: []string{"Go", " Redis ", "Go"},
		GithubURL:    "https://github.com/example/" + title,
	}
}

func TestProjectCreateRequiresIdentity(t *testing.T) {
	f := newFixture(t)

	_, err := f.projects.Create(context.Background(), projectInput("anon"))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}

	list, err := f.projects.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("anonymous create stored %d rows", len(list))
	}
}

func TestProjectCreateSetsOwner(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.owner)

	project, err := f.projects.Create(ctx, projectInput("chat"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if project.UserID != f.owner.ID {
		t.Errorf("user_id = %s, want %s", project.UserID, f.owner.ID)
	}
	if got := []string(project.Technologies); len(got) != 2 || got[1] != "Redis" {
		t.Errorf("technologies = %v, want [Go Redis]", got)
	}
	if project.DemoURL != nil {
		t.Errorf("demo_url = %v, want NULL", *project.DemoURL)
	}

	e := f.events.last()
	if e.Table != realtime.TableProjects || e.Type != realtime.EventInsert || e.Key != project.ID {
		t.Errorf("event = %+v", e)
	}
}

func TestProjectCreateValidation(t *testing.T) {
	f := newFixture(t)

	in := projectInput("x")
	in.Technologies = []string{" ", ""}
	in.DemoURL = "not a url"

	_, err := f.projects.Create(f.as(f.owner), in)
	var verrs *validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("err = %v, want *validation.Errors", err)
	}
	if verrs.Fields["technologies"] != "At least one technology is required" {
		t.Errorf("technologies message = %q", verrs.Fields["technologies"])
	}
	if verrs.Fields["demo_url"] != "Invalid URL" {
		t.Errorf("demo_url message = %q", verrs.Fields["demo_url"])
	}
	if len(f.events.events) != 0 {
		t.Errorf("invalid input published %d events", len(f.events.events))
	}
}

func TestProjectUpdateLeavesOtherRows(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.owner)

	a, _ := f.projects.Create(ctx, projectInput("a"))
	b, _ := f.projects.Create(ctx, projectInput("b"))

	title := "a renamed"
	updated, err := f.projects.Update(ctx, a.ID, model.ProjectPatch{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || updated.Description != a.Description {
		t.Errorf("updated = %+v", updated)
	}

	list, err := f.projects.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, p := range list {
		if p.ID == b.ID && p.Title != "b" {
			t.Errorf("unrelated row changed: %+v", p)
		}
		if p.ID == a.ID && p.Title != title {
			t.Errorf("list served stale title %q", p.Title)
		}
	}
}

func TestProjectWritesByNonOwnerAreNotFound(t *testing.T) {
	f := newFixture(t)

	p, err := f.projects.Create(f.as(f.owner), projectInput("mine"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "stolen"
	_, err = f.projects.Update(f.as(f.other), p.ID, model.ProjectPatch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update by other = %v, want ErrNotFound", err)
	}

	err = f.projects.Delete(f.as(f.other), p.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete by other = %v, want ErrNotFound", err)
	}

	err = f.projects.Delete(context.Background(), p.ID)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Delete anonymous = %v, want ErrUnauthenticated", err)
	}
}

func TestProjectDeleteThenList(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.owner)

	p, _ := f.projects.Create(ctx, projectInput("gone"))
	keep, _ := f.projects.Create(ctx, projectInput("kept"))

	// Prime the cache so the delete has to invalidate it
	if _, err := f.projects.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}

	if err := f.projects.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	list, err := f.projects.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Errorf("list after delete = %v", list)
	}

	if e := f.events.last(); e.Type != realtime.EventDelete || e.Key != p.ID {
		t.Errorf("event = %+v", e)
	}
}

func TestCertificateDuplicateTitlesAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.owner)

	in := model.CertificateInput{Title: "CKA", Issuer: "CNCF", Date: "2024"}
	if _, err := f.certificates.Create(ctx, in); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := f.certificates.Create(ctx, in); err != nil {
		t.Fatalf("second Create: %v", err)
	}

	list, _ := f.certificates.List(ctx)
	if len(list) != 2 {
		t.Errorf("len = %d, want 2", len(list))
	}
}

func TestDSAProblemDifficulty(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.owner)

	in := model.DSAProblemInput{
		Title:           "LRU Cache",
		Platform:        "LeetCode",
		Difficulty:      " medium ",
		Category:        "Design",
		TimeComplexity:  "O(1)",
		SpaceComplexity: "O(n)",
	}
	p, err := f.problems.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Difficulty != model.DifficultyMedium {
		t.Errorf("difficulty = %q, want Medium", p.Difficulty)
	}

	bad := "Impossible"
	_, err = f.problems.Update(ctx, p.ID, model.DSAProblemPatch{Difficulty: &bad})
	if !errors.Is(err, validation.ErrValidation) {
		t.Errorf("Update with bad difficulty = %v, want validation error", err)
	}

	solved := true
	p, err = f.problems.Update(ctx, p.ID, model.DSAProblemPatch{Solved: &solved})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !p.Solved || p.Difficulty != model.DifficultyMedium {
		t.Errorf("after update = %+v", p)
	}
}

func TestUploadRejectsBeforeStorage(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.owner)

	tests := []struct {
		name string
		up   Upload
	}{
		{"pdf", Upload{Filename: "cv.pdf", ContentType: "application/pdf", Size: 100, Body: bytes.NewReader([]byte("%PDF-1.4"))}},
		{"too large", Upload{Filename: "big.png", ContentType: "image/png", Size: validation.MaxImageSize + 1, Body: bytes.NewReader(pngHeader)}},
		{"renamed text", Upload{Filename: "fake.png", ContentType: "image/png", Size: 5, Body: bytes.NewReader([]byte("hello"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.projects.UploadImage(ctx, tt.up)
			if !errors.Is(err, validation.ErrInvalidFile) {
				t.Errorf("err = %v, want ErrInvalidFile", err)
			}
		})
	}

	if n := f.store.Saves(); n != 0 {
		t.Errorf("storage saw %d saves, want 0", n)
	}
}

func TestUploadImagePath(t *testing.T) {
	f := newFixture(t)

	up := Upload{Filename: "shot.PNG", ContentType: "image/png", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)}
	url, err := f.certificates.UploadImage(f.as(f.owner), up)
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}

	prefix := "https://cdn.example.com/certificates/" + f.owner.ID + "/"
	if !strings.HasPrefix(url, prefix) || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want %s{random}.png", url, prefix)
	}

	_, err = f.certificates.UploadImage(context.Background(), up)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous upload = %v, want ErrUnauthenticated", err)
	}
}

func TestProfileUpsertAndDefaultOwner(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.owner)

	got, err := f.profiles.Get(context.Background(), "")
	if err != nil || got != nil {
		t.Fatalf("Get before create = %v, %v", got, err)
	}

	name := "Ada"
	skills := []string{"React", " React", "Vue", ""}
	created, err := f.profiles.Upsert(ctx, model.ProfilePatch{DisplayName: &name, FrontendSkills: &skills})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got := []string(created.FrontendSkills); len(got) != 2 || got[0] != "React" || got[1] != "Vue" {
		t.Errorf("frontend skills = %v", got)
	}
	if e := f.events.last(); e.Type != realtime.EventInsert || e.OwnerID != f.owner.ID {
		t.Errorf("first upsert event = %+v", e)
	}

	bio := "Writes Go"
	updated, err := f.profiles.Upsert(ctx, model.ProfilePatch{Bio: &bio})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if updated.ID != created.ID || model.Value(updated.DisplayName) != "Ada" || model.Value(updated.Bio) != bio {
		t.Errorf("second upsert = %+v", updated)
	}
	if e := f.events.last(); e.Type != realtime.EventUpdate {
		t.Errorf("second upsert event = %+v", e)
	}

	// Anonymous visitors see the site owner's profile
	anon, err := f.profiles.Get(context.Background(), "")
	if err != nil || anon == nil || anon.UserID != f.owner.ID || model.Value(anon.Bio) != bio {
		t.Errorf("anonymous Get = %+v, %v", anon, err)
	}

	// A signed-in non-owner sees their own (missing) profile
	mine, err := f.profiles.Get(f.as(f.other), "")
	if err != nil || mine != nil {
		t.Errorf("other Get = %+v, %v", mine, err)
	}
}

func TestProfileUpsertValidation(t *testing.T) {
	f := newFixture(t)

	empty := "  "
	_, err := f.profiles.Upsert(f.as(f.owner), model.ProfilePatch{DisplayName: &empty})
	var verrs *validation.Errors
	if !errors.As(err, &verrs) || verrs.Fields["display_name"] == "" {
		t.Fatalf("err = %v, want display_name error", err)
	}

	_, err = f.profiles.Upsert(context.Background(), model.ProfilePatch{})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous Upsert = %v, want ErrUnauthenticated", err)
	}
}

func TestUploadAvatarOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(f.owner)

	upload := func() *model.Profile {
		up := Upload{Filename: "me.png", ContentType: "image/png", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)}
		p, err := f.profiles.UploadAvatar(ctx, up)
		if err != nil {
			t.Fatalf("UploadAvatar: %v", err)
		}
		return p
	}

	first := upload()
	second := upload()

	want := "https://cdn.example.com/avatars/" + f.owner.ID + "/avatar.png"
	if model.Value(first.AvatarURL) != want || model.Value(second.AvatarURL) != want {
		t.Errorf("avatar urls = %v, %v, want %s", model.Value(first.AvatarURL), model.Value(second.AvatarURL), want)
	}
	if _, ok := f.store.Get("avatars/" + f.owner.ID + "/avatar.png"); !ok {
		t.Error("avatar object missing")
	}
}

func TestPortfolioEditable(t *testing.T) {
	f := newFixture(t)

	if _, err := f.projects.Create(f.as(f.owner), projectInput("mine")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	in := model.DSAProblemInput{Title: "Two Sum", Platform: "LeetCode", Difficulty: "Easy", Category: "Arrays", TimeComplexity: "O(n)", SpaceComplexity: "O(n)", Solved: true}
	if _, err := f.problems.Create(f.as(f.owner), in); err != nil {
		t.Fatalf("Create problem: %v", err)
	}

	owner, err := f.portfolio.Get(f.as(f.owner), "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(owner.Projects) != 1 || !owner.Projects[0].Editable {
		t.Errorf("owner view projects = %+v", owner.Projects)
	}
	if !strings.Contains(owner.Projects[0].DescriptionHTML, "<strong>fast</strong>") {
		t.Errorf("description html = %q", owner.Projects[0].DescriptionHTML)
	}

	anon, err := f.portfolio.Get(context.Background(), "")
	if err != nil {
		t.Fatalf("anonymous Get: %v", err)
	}
	if anon.Projects[0].Editable || anon.SignedIn {
		t.Error("anonymous view is editable")
	}
	if anon.DSAStats.Total != 1 || anon.DSAStats.Solved != 1 || anon.DSAStats.ByDifficulty[0].Solved != 1 {
		t.Errorf("stats = %+v", anon.DSAStats)
	}
}

func TestStats(t *testing.T) {
	problems := []*model.DSAProblem{
		{Difficulty: model.DifficultyEasy, Solved: true},
		{Difficulty: model.DifficultyHard},
		{Difficulty: model.DifficultyHard, Solved: true},
	}

	got := Stats(problems)
	if got.Total != 3 || got.Solved != 2 {
		t.Errorf("totals = %d/%d", got.Solved, got.Total)
	}
	want := []DifficultyStats{
		{Difficulty: "Easy", Total: 1, Solved: 1},
		{Difficulty: "Medium"},
		{Difficulty: "Hard", Total: 2, Solved: 1},
	}
	for i, w := range want {
		if got.ByDifficulty[i] != w {
			t.Errorf("ByDifficulty[%d] = %+v, want %+v", i, got.ByDifficulty[i], w)
		}
	}
}
