/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models_test

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/keyedstore/datastore/memory"
	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/index"
	"github.com/suparena/keyedstore/lineimport"
	"github.com/suparena/keyedstore/models"
	"github.com/suparena/keyedstore/persistence"
	"github.com/suparena/keyedstore/registry"
)

func date(y int, m time.Month, d int) strfmt.Date {
	return strfmt.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestInventoryStore(t *testing.T) {
	store := memory.New[int, models.InventoryItem]()
	if store.Name() != models.KindInventory {
		t.Fatalf("Expected store named after registered kind, got %q", store.Name())
	}

	bolts := models.InventoryItem{ID: 1, Name: "Bolt", Category: "hardware", Quantity: 40}
	if err := store.Add(bolts); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	t.Run("DuplicateKeepsFirst", func(t *testing.T) {
		err := store.Add(models.InventoryItem{ID: 1, Name: "Nut", Quantity: 3})
		if !errors.IsDuplicateKey(err) {
			t.Fatalf("Expected duplicate key, got %v", err)
		}
		got, _ := store.GetByID(1)
		if got != bolts {
			t.Fatalf("Expected %v, got %v", bolts, got)
		}
	})

	t.Run("MissingKeyBeatsInvalidValue", func(t *testing.T) {
		err := store.UpdateField(99, models.InventoryQuantity.To(-5))
		if !errors.IsNotFound(err) {
			t.Fatalf("Expected not found, got %v", err)
		}
	})

	t.Run("NegativeQuantityRejected", func(t *testing.T) {
		err := store.UpdateField(1, models.InventoryQuantity.To(-1))
		if !errors.IsInvalidValue(err) {
			t.Fatalf("Expected invalid value, got %v", err)
		}
		got, _ := store.GetByID(1)
		if got.Quantity != 40 {
			t.Fatalf("Expected quantity 40, got %d", got.Quantity)
		}
	})

	t.Run("QuantityUpdated", func(t *testing.T) {
		if err := store.UpdateField(1, models.InventoryQuantity.To(5)); err != nil {
			t.Fatalf("UpdateField failed: %v", err)
		}
		if low := store.Find(models.LowStock(10)); len(low) != 1 || low[0].ID != 1 {
			t.Fatalf("Expected item 1 to be low on stock, got %v", low)
		}
	})

	t.Run("InvalidItemRejected", func(t *testing.T) {
		if err := store.Add(models.InventoryItem{ID: 2, Quantity: 1}); !errors.IsInvalidValue(err) {
			t.Fatalf("Expected invalid value for missing name, got %v", err)
		}
		if err := store.Add(models.InventoryItem{ID: 3, Name: "Gear", Quantity: -2}); !errors.IsInvalidValue(err) {
			t.Fatalf("Expected invalid value for negative quantity, got %v", err)
		}
	})
}

func TestGroupingByCategory(t *testing.T) {
	store := memory.New[int, models.InventoryItem]()
	for _, item := range []models.InventoryItem{
		{ID: 1, Name: "Bolt", Category: "A", Quantity: 1},
		{ID: 2, Name: "Hammer", Category: "B", Quantity: 1},
		{ID: 3, Name: "Nut", Category: "A", Quantity: 1},
	} {
		if err := store.Add(item); err != nil {
			t.Fatal(err)
		}
	}

	byCategory, err := registry.Grouping[models.InventoryItem]("category")
	if err != nil {
		t.Fatalf("Grouping failed: %v", err)
	}
	ix := index.Build[string, models.InventoryItem](store, byCategory)

	var ids []int
	for _, item := range ix.LookupGroup("A") {
		ids = append(ids, item.ID)
	}
	if !reflect.DeepEqual(ids, []int{1, 3}) {
		t.Fatalf("Expected [1 3], got %v", ids)
	}
	if got := ix.LookupGroup("C"); got == nil || len(got) != 0 {
		t.Fatalf("Expected empty group, got %#v", got)
	}
}

func TestStudents(t *testing.T) {
	t.Run("Letters", func(t *testing.T) {
		tests := []struct {
			score int
			want  string
		}{
			{100, "A"}, {90, "A"}, {89, "B"}, {80, "B"}, {79, "C"}, {70, "C"}, {65, "D"}, {59, "F"}, {0, "F"},
		}
		for _, tt := range tests {
			if got := (models.Student{Score: tt.score}).Letter(); got != tt.want {
				t.Errorf("Score %d: expected %s, got %s", tt.score, tt.want, got)
			}
		}
	})

	t.Run("ImportFailsFast", func(t *testing.T) {
		store := memory.New[int, models.Student]()
		n, err := lineimport.ImportInto[int, models.Student](store, models.StudentSchema, strings.NewReader("1,Alice,85\n2,Bob\n"))
		var mf *errors.MissingFieldError
		if !errors.As(err, &mf) || mf.Line != 2 {
			t.Fatalf("Expected missing field at line 2, got %v", err)
		}
		if n != 0 || store.Len() != 0 {
			t.Fatalf("Expected nothing imported, got n=%d len=%d", n, store.Len())
		}
	})

	t.Run("ImportAndRegrade", func(t *testing.T) {
		store := memory.New[int, models.Student]()
		input := "1, Alice , 85\n2,Bob,72\n\n3,Cy,91\n"
		n, err := lineimport.ImportInto[int, models.Student](store, models.StudentSchema, strings.NewReader(input))
		if err != nil || n != 3 {
			t.Fatalf("ImportInto failed: n=%d err=%v", n, err)
		}
		alice, _ := store.GetByID(1)
		if alice.Name != "Alice" {
			t.Fatalf("Expected trimmed name, got %q", alice.Name)
		}
		if avg := models.ClassAverage(store.GetAll()); avg != 248.0/3 {
			t.Fatalf("Unexpected average %v", avg)
		}
		if err := store.UpdateField(2, models.StudentScore.To(101)); !errors.IsInvalidValue(err) {
			t.Fatalf("Expected invalid value, got %v", err)
		}
		if err := store.UpdateField(2, models.StudentScore.To(95)); err != nil {
			t.Fatalf("UpdateField failed: %v", err)
		}
		byLetter, _ := registry.Grouping[models.Student]("letter")
		ix := index.Build[string, models.Student](store, byLetter)
		if got := len(ix.LookupGroup("A")); got != 2 {
			t.Fatalf("Expected 2 A students, got %d", got)
		}
	})

	t.Run("BadScore", func(t *testing.T) {
		_, err := lineimport.Parse(models.StudentSchema, []string{"1,Alice,eighty"})
		var bf *errors.BadFormatError
		if !errors.As(err, &bf) || bf.Field != "score" || bf.Line != 1 {
			t.Fatalf("Expected bad format on score, got %v", err)
		}
	})

	if models.ClassAverage(nil) != 0 {
		t.Error("Expected 0 average for empty class")
	}
}

func TestPrescriptionsByPatient(t *testing.T) {
	lines := []string{
		"1,P-1,ibuprofen,200mg,2024-03-01",
		"2,P-2,amoxicillin,500mg,2024-03-02",
		"3,P-1,omeprazole,20mg,2024-03-05",
	}
	rx, err := lineimport.Parse(models.PrescriptionSchema, lines)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if rx[0].Issued != date(2024, time.March, 1) {
		t.Fatalf("Unexpected issue date %v", rx[0].Issued)
	}

	store := memory.New[int, models.Prescription]()
	if err := store.Replace(rx); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	byPatient, _ := registry.Grouping[models.Prescription]("patient")
	ix := index.Build[string, models.Prescription](store, byPatient)
	if got := ix.LookupGroup("P-1"); len(got) != 2 || got[0].Drug != "ibuprofen" || got[1].Drug != "omeprazole" {
		t.Fatalf("Unexpected group for P-1: %v", got)
	}

	if err := store.UpdateField(2, models.PrescriptionDosage.To("")); !errors.IsInvalidValue(err) {
		t.Fatalf("Expected invalid value for blank dosage, got %v", err)
	}

	_, err = lineimport.Parse(models.PatientSchema, []string{"P-9,Dana,03/04/1990"})
	if !errors.IsBadFormat(err) {
		t.Fatalf("Expected bad format date, got %v", err)
	}
}

func TestLedger(t *testing.T) {
	accounts := memory.New[string, models.Account]()
	journal := memory.New[int, models.Transaction]()

	_ = accounts.Add(models.Account{ID: "CHK", Owner: "Ana", Kind: models.Unconstrained, Balance: 10})
	_ = accounts.Add(models.Account{ID: "SAV", Owner: "Ana", Kind: models.BalanceLimited, Balance: 100, Floor: 25})

	tests := []struct {
		name    string
		tx      models.Transaction
		wantErr func(error) bool
		balance float64
	}{
		{"UnconstrainedOverdraw", models.Transaction{ID: 1, AccountID: "CHK", Amount: -50}, nil, -40},
		{"LimitedWithinFloor", models.Transaction{ID: 2, AccountID: "SAV", Amount: -75}, nil, 25},
		{"LimitedBelowFloor", models.Transaction{ID: 3, AccountID: "SAV", Amount: -0.01}, errors.IsInvalidValue, 25},
		{"UnknownAccount", models.Transaction{ID: 4, AccountID: "NOPE", Amount: -1}, errors.IsNotFound, 0},
		{"DuplicateTransaction", models.Transaction{ID: 1, AccountID: "SAV", Amount: 5}, errors.IsDuplicateKey, 25},
		{"ZeroAmount", models.Transaction{ID: 5, AccountID: "SAV"}, errors.IsInvalidValue, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := models.Post(accounts, journal, tt.tx)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Post failed: %v", err)
			}
			if tt.wantErr != nil && !tt.wantErr(err) {
				t.Fatalf("Unexpected error %v", err)
			}
			if acct, err := accounts.GetByID(tt.tx.AccountID); err == nil && acct.Balance != tt.balance {
				t.Fatalf("Expected balance %v, got %v", tt.balance, acct.Balance)
			}
		})
	}

	if journal.Len() != 2 {
		t.Fatalf("Expected 2 journal entries, got %d", journal.Len())
	}

	t.Run("KindText", func(t *testing.T) {
		k, err := models.ParseAccountKind("BALANCE_LIMITED")
		if err != nil || k != models.BalanceLimited {
			t.Fatalf("Expected BalanceLimited, got %v %v", k, err)
		}
		if _, err := models.AccountKind(7).MarshalText(); err == nil {
			t.Fatal("Expected unknown kind to fail marshaling")
		}
		if err := accounts.Add(models.Account{ID: "X", Owner: "Q", Kind: 7}); !errors.IsInvalidValue(err) {
			t.Fatalf("Expected invalid value for unknown kind, got %v", err)
		}
	})

	t.Run("AccountSchema", func(t *testing.T) {
		got, err := lineimport.Parse(models.AccountSchema, []string{"BRK,Bo,balance_limited,50,10", "PET,Cy,unconstrained,0,"})
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		want := []models.Account{
			{ID: "BRK", Owner: "Bo", Kind: models.BalanceLimited, Balance: 50, Floor: 10},
			{ID: "PET", Owner: "Cy", Kind: models.Unconstrained},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Expected %v, got %v", want, got)
		}
		if _, err := lineimport.Parse(models.AccountSchema, []string{"Z,Zed,gold,1,0"}); !errors.IsBadFormat(err) {
			t.Fatalf("Expected bad format kind, got %v", err)
		}
	})
}

// failingJournal rejects every Add with an I/O failure.
type failingJournal struct {
	*memory.Store[int, models.Transaction]
}

func (j failingJournal) Add(models.Transaction) error {
	return errors.NewIOFailureError("append", "journal", errors.New("disk full"))
}

func TestPostReversesOnJournalFailure(t *testing.T) {
	accounts := memory.New[string, models.Account]()
	_ = accounts.Add(models.Account{ID: "SAV", Owner: "Ana", Kind: models.BalanceLimited, Balance: 100, Floor: 25})
	journal := failingJournal{Store: memory.New[int, models.Transaction]()}

	err := models.Post(accounts, journal, models.Transaction{ID: 1, AccountID: "SAV", Amount: -50})
	if !errors.IsIOFailure(err) {
		t.Fatalf("Expected I/O failure from journal, got %v", err)
	}
	acct, err := accounts.GetByID("SAV")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if acct.Balance != 100 {
		t.Fatalf("Expected balance restored to 100, got %v", acct.Balance)
	}
	if journal.Len() != 0 {
		t.Fatalf("Expected empty journal, got %d", journal.Len())
	}
}

func TestModelsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	patients := memory.New[string, models.Patient]()
	_ = patients.Add(models.Patient{ID: "P-2", Name: "Eve", BirthDate: date(1985, time.July, 14)})
	_ = patients.Add(models.Patient{ID: "P-1", Name: "Dan", BirthDate: date(1990, time.January, 2)})

	accounts := memory.New[string, models.Account]()
	_ = accounts.Add(models.Account{ID: "SAV", Owner: "Ana", Kind: models.BalanceLimited, Balance: 100.5, Floor: 25})
	_ = accounts.Add(models.Account{ID: "CHK", Owner: "Ana", Balance: -3.25})

	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "patients"+ext)
			if err := persistence.SaveFile[models.Patient](patients, path); err != nil {
				t.Fatalf("SaveFile failed: %v", err)
			}
			got, found, err := persistence.LoadFile[string, models.Patient](path)
			if err != nil || !found {
				t.Fatalf("LoadFile failed: found=%v err=%v", found, err)
			}
			if !reflect.DeepEqual(got.GetAll(), patients.GetAll()) {
				t.Fatalf("Expected %v, got %v", patients.GetAll(), got.GetAll())
			}

			path = filepath.Join(dir, "accounts"+ext)
			if err := persistence.SaveFile[models.Account](accounts, path); err != nil {
				t.Fatalf("SaveFile failed: %v", err)
			}
			gotAccounts, _, err := persistence.LoadFile[string, models.Account](path)
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if !reflect.DeepEqual(gotAccounts.GetAll(), accounts.GetAll()) {
				t.Fatalf("Expected %v, got %v", accounts.GetAll(), gotAccounts.GetAll())
			}
		})
	}

	t.Run("WrongKind", func(t *testing.T) {
		path := filepath.Join(dir, "patients.json")
		if _, _, err := persistence.LoadFile[string, models.Account](path); !errors.IsCorruptData(err) {
			t.Fatalf("Expected corrupt data loading patients as accounts, got %v", err)
		}
	})
}

func TestRegisteredKinds(t *testing.T) {
	for _, kind := range []string{
		models.KindInventory, models.KindStudent, models.KindPatient,
		models.KindPrescription, models.KindAccount, models.KindTransaction,
	} {
		if _, ok := registry.KindType(kind); !ok {
			t.Errorf("Kind %q not registered", kind)
		}
	}
	if got := registry.Groupings[models.Transaction](); !reflect.DeepEqual(got, []string{"account"}) {
		t.Errorf("Expected [account], got %v", got)
	}
}
