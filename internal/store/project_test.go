package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/devfolio/apiserver/types"
	"github.com/lib/pq"
)

func testProject(title, slug string) types.Project {
	return types.Project{UserID: "u1", Title: title, Slug: slug}
}

func TestProjectListCountAndPageShareFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	category := "Web Development"
	search := "shop"
	filter := ProjectFilter{Category: &category, Search: &search}

	mock.ExpectQuery(`SELECT COUNT\(1\) FROM projects WHERE 1=1 AND category = \$1 AND \(title ILIKE \$2 OR description ILIKE \$2\)`).
		WithArgs(category, "%shop%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "slug", "description", "category",
		"technologies", "demo_url", "repo_url", "featured", "created_at", "updated_at",
	}).
		AddRow("p1", "u1", "Shop One", "shop-one", "", category, []byte(`["Go"]`), "", "", false, now, now).
		AddRow("p2", "u1", "Shop Two", "shop-two", "", category, []byte(`[]`), "", "", true, now, now)

	mock.ExpectQuery(`SELECT .+ FROM projects WHERE 1=1 AND category = \$1 AND \(title ILIKE \$2 OR description ILIKE \$2\) ORDER BY created_at DESC OFFSET \$3 LIMIT \$4`).
		WithArgs(category, "%shop%", 10, 10).
		WillReturnRows(rows)

	repo := NewProjectRepository(db)
	projects, total, err := repo.List(context.Background(), filter, Criteria{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 25 {
		t.Fatalf("expected total 25, got %d", total)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].Technologies[0] != "Go" {
		t.Fatalf("expected technologies decoded, got %v", projects[0].Technologies)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProjectCreateDuplicateSlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO projects`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "projects_slug_key"})

	repo := NewProjectRepository(db)
	_, err = repo.Create(context.Background(), testProject("My App", "my-app"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "slug already exists" {
		t.Fatalf("unexpected conflict message: %q", err.Error())
	}
}

func TestProjectGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM projects`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewProjectRepository(db)
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProjectGetCorruptTechnologiesRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "slug", "description", "category",
		"technologies", "demo_url", "repo_url", "featured", "created_at", "updated_at",
	}).AddRow("p1", "u1", "Shop", "shop", "", "", []byte("{"), "", "", false, now, now)

	mock.ExpectQuery(`SELECT .+ FROM projects`).
		WithArgs("p1").
		WillReturnRows(rows)

	repo := NewProjectRepository(db)
	if _, err := repo.Get(context.Background(), "p1"); err == nil {
		t.Fatalf("expected an error for a corrupt technologies column")
	}
}

func TestProjectUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE projects`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewProjectRepository(db)
	project := testProject("Gone", "gone")
	project.ID = "missing"
	if _, err := repo.Update(context.Background(), project); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
