package advice

import (
	"math"
	"testing"
	"time"

	"github.com/teniee/mita-budget-engine/internal/models"
)

func catTxn(cat models.Category, amount float64) models.Transaction {
	return models.Transaction{
		Date:     time.Date(2025, time.May, 12, 0, 0, 0, 0, time.UTC),
		Amount:   amount,
		Category: cat,
	}
}

func TestSummarizeCategories(t *testing.T) {
	txns := []models.Transaction{
		catTxn(models.CategoryDining, 90),
		catTxn(models.CategoryGroceries, 120.5),
		catTxn("", 30), // uncategorized folds into "other"
		catTxn(models.CategoryGroceries, 60),
	}

	got, err := SummarizeCategories(txns)
	if err != nil {
		t.Fatalf("SummarizeCategories returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d categories, want 3", len(got))
	}

	if got[0].Category != models.CategoryGroceries || got[0].Total != 180.5 || got[0].Count != 2 {
		t.Errorf("top category = %+v, want groceries 180.5 over 2 transactions", got[0])
	}
	if got[1].Category != models.CategoryDining || got[1].Total != 90 {
		t.Errorf("second category = %+v, want dining 90", got[1])
	}
	if got[2].Category != models.CategoryOther || got[2].Total != 30 {
		t.Errorf("third category = %+v, want other 30", got[2])
	}

	var shares float64
	for _, s := range got {
		shares += s.Share
	}
	if math.Abs(shares-1) > 1e-9 {
		t.Errorf("shares sum to %v, want 1", shares)
	}
}

func TestSummarizeCategoriesTieBreak(t *testing.T) {
	got, err := SummarizeCategories([]models.Transaction{
		catTxn(models.CategoryTransport, 50),
		catTxn(models.CategoryDining, 50),
	})
	if err != nil {
		t.Fatalf("SummarizeCategories returned error: %v", err)
	}
	if len(got) != 2 || got[0].Category != models.CategoryDining {
		t.Errorf("tied totals ordered %v, want dining before transport", got)
	}
}

func TestSummarizeCategoriesEmpty(t *testing.T) {
	got, err := SummarizeCategories(nil)
	if err != nil {
		t.Fatalf("SummarizeCategories returned error: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestSummarizeCategoriesRejectsCorruptInput(t *testing.T) {
	_, err := SummarizeCategories([]models.Transaction{{Amount: 10}})
	if err == nil {
		t.Error("accepted a transaction with a zero date")
	}

	_, err = SummarizeCategories([]models.Transaction{catTxn(models.CategoryDining, -5)})
	if err == nil {
		t.Error("accepted a negative amount")
	}
}
