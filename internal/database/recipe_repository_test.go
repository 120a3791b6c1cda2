package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/DawsonJay/jam-hot-project/internal/database"
	"github.com/DawsonJay/jam-hot-project/internal/domain"
)

func newRecipeRepo(t *testing.T) (*database.RecipeRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	db := sqlx.NewDb(mockDB, "postgres")
	repo := database.NewRecipeRepository(db)

	return repo, mock, func() { mockDB.Close() }
}

func errNoRows() error { return sql.ErrNoRows }

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func sampleRecipe() *domain.Recipe {
	return &domain.Recipe{
		Title:       "Easy Strawberry Jam",
		Description: "Three ingredients, no pectin.",
		Ingredients: domain.IngredientList{
			{Item: "2 lbs strawberries", Name: "strawberries"},
			{Item: "4 cups sugar", Name: "sugar"},
		},
		Instructions: domain.StringList{"Crush fruit.", "Boil with sugar."},
		Rating:       4.7,
		ReviewCount:  948,
		Source:       "AllRecipes",
		SourceURL:    "https://www.allrecipes.com/recipe/39439/",
		ScrapedAt:    time.Now().UTC(),
	}
}

func TestRecipeRepository_InsertIfAbsent_New(t *testing.T) {
	repo, mock, cleanup := newRecipeRepo(t)
	defer cleanup()

	rec := sampleRecipe()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM recipes WHERE source_url").
		WithArgs(rec.SourceURL, rec.Title).
		WillReturnError(errNoRows())
	mock.ExpectQuery("INSERT INTO recipes").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectCommit()

	id, created, err := repo.InsertIfAbsent(context.Background(), rec)
	if err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}
	if !created {
		t.Error("InsertIfAbsent() created = false, want true")
	}
	if id != 42 {
		t.Errorf("InsertIfAbsent() id = %d, want 42", id)
	}
	if rec.ID != 42 {
		t.Errorf("recipe ID not updated, got %d", rec.ID)
	}

	expectationsMet(t, mock)
}

func TestRecipeRepository_InsertIfAbsent_Duplicate(t *testing.T) {
	repo, mock, cleanup := newRecipeRepo(t)
	defer cleanup()

	rec := sampleRecipe()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM recipes WHERE source_url").
		WithArgs(rec.SourceURL, rec.Title).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectRollback()

	id, created, err := repo.InsertIfAbsent(context.Background(), rec)
	if err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}
	if created {
		t.Error("InsertIfAbsent() created = true for existing recipe")
	}
	if id != 7 {
		t.Errorf("InsertIfAbsent() id = %d, want 7", id)
	}

	expectationsMet(t, mock)
}

func TestRecipeRepository_UpsertFruitRelation(t *testing.T) {
	repo, mock, cleanup := newRecipeRepo(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO recipe_fruits").
		WithArgs(int64(42), int64(3), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertFruitRelation(context.Background(), domain.FruitRelation{
		RecipeID:  42,
		FruitID:   3,
		IsPrimary: true,
	})
	if err != nil {
		t.Fatalf("UpsertFruitRelation() error = %v", err)
	}

	expectationsMet(t, mock)
}

func TestRecipeRepository_FruitIDByIdentifier(t *testing.T) {
	repo, mock, cleanup := newRecipeRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id FROM fruits WHERE identifier").
		WithArgs("strawberry").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, err := repo.FruitIDByIdentifier(context.Background(), "strawberry")
	if err != nil {
		t.Fatalf("FruitIDByIdentifier() error = %v", err)
	}
	if id != 3 {
		t.Errorf("FruitIDByIdentifier() = %d, want 3", id)
	}

	expectationsMet(t, mock)
}

func TestRecipeRepository_FruitIDByIdentifier_NotFound(t *testing.T) {
	repo, mock, cleanup := newRecipeRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id FROM fruits WHERE identifier").
		WithArgs("durian").
		WillReturnError(errNoRows())

	_, err := repo.FruitIDByIdentifier(context.Background(), "durian")
	if !errors.Is(err, database.ErrFruitNotFound) {
		t.Fatalf("FruitIDByIdentifier() error = %v, want ErrFruitNotFound", err)
	}

	expectationsMet(t, mock)
}

func TestRecipeRepository_RecipesByPrimaryFruits(t *testing.T) {
	repo, mock, cleanup := newRecipeRepo(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "title", "rating", "review_count", "combo"}).
		AddRow(int64(1), "Strawberry Jam", 4.7, 948, "strawberry").
		AddRow(int64(2), "Berry Medley Jam", 4.2, 120, "raspberry+strawberry").
		AddRow(int64(3), "Classic Strawberry Jam", 4.5, 500, "strawberry")

	mock.ExpectQuery("SELECT (.+) FROM recipes r").WillReturnRows(rows)

	groups, err := repo.RecipesByPrimaryFruits(context.Background())
	if err != nil {
		t.Fatalf("RecipesByPrimaryFruits() error = %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if len(groups["strawberry"]) != 2 {
		t.Errorf("strawberry group has %d recipes, want 2", len(groups["strawberry"]))
	}
	if len(groups["raspberry+strawberry"]) != 1 {
		t.Errorf("combo group has %d recipes, want 1", len(groups["raspberry+strawberry"]))
	}

	expectationsMet(t, mock)
}

func TestRecipeRepository_DeleteRecipes(t *testing.T) {
	repo, mock, cleanup := newRecipeRepo(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM recipe_fruits").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM recipes").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.DeleteRecipes(context.Background(), []int64{10, 11, 12})
	if err != nil {
		t.Fatalf("DeleteRecipes() error = %v", err)
	}

	expectationsMet(t, mock)
}

func TestRecipeRepository_DeleteRecipes_Empty(t *testing.T) {
	repo, mock, cleanup := newRecipeRepo(t)
	defer cleanup()

	// No IDs means no queries at all.
	if err := repo.DeleteRecipes(context.Background(), nil); err != nil {
		t.Fatalf("DeleteRecipes() error = %v", err)
	}

	expectationsMet(t, mock)
}

func TestComboIdentifiers(t *testing.T) {
	got := database.ComboIdentifiers("raspberry+strawberry")
	if len(got) != 2 || got[0] != "raspberry" || got[1] != "strawberry" {
		t.Errorf("ComboIdentifiers() = %v", got)
	}
	if database.ComboIdentifiers("") != nil {
		t.Error("ComboIdentifiers(\"\") should be nil")
	}
}
