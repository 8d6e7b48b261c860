package repository

import (
	"context"
	"errors"
	"testing"

	"go-clinic-booking/internal/domain/entity"
	domainRepo "go-clinic-booking/internal/domain/repository"
	"go-clinic-booking/pkg/uhid"

	"gorm.io/gorm"
)

func seedPatient(t *testing.T, db *gorm.DB, value, name string) *entity.Patient {
	t.Helper()
	p := &entity.Patient{UHID: value, FullName: name, PhoneNumber: "9000000000"}
	if err := NewPatientRepository(db).Create(context.Background(), p); err != nil {
		t.Fatalf("Create %s: %v", value, err)
	}
	return p
}

func TestFindByUHIDPredicateSuffixSpansYears(t *testing.T) {
	db := requireDB(t)
	repo := NewPatientRepository(db)
	f := uhid.NewFormatter("MED", 5)

	seedPatient(t, db, "MED-2023-00042", "Old Year")
	seedPatient(t, db, "MED-2024-00142", "Longer Tail")
	seedPatient(t, db, "MED-2024-00042", "This Year")
	seedPatient(t, db, "MED-2024-00420", "Shifted")

	got, err := repo.FindByUHIDPredicate(context.Background(), f.MatchSuffix("42"))
	if err != nil {
		t.Fatalf("FindByUHIDPredicate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d patients, want 2: %+v", len(got), got)
	}
	if got[0].UHID != "MED-2023-00042" || got[1].UHID != "MED-2024-00042" {
		t.Errorf("got %s, %s in id order", got[0].UHID, got[1].UHID)
	}

	exact, err := repo.FindByUHIDPredicate(context.Background(), f.MatchSuffix("MED-2024-00142"))
	if err != nil {
		t.Fatalf("FindByUHIDPredicate: %v", err)
	}
	if len(exact) != 1 || exact[0].FullName != "Longer Tail" {
		t.Errorf("exact match = %+v", exact)
	}
}

func TestPatientCreateWithBlankDemographics(t *testing.T) {
	db := requireDB(t)
	repo := NewPatientRepository(db)

	p := seedPatient(t, db, "MED-2024-00001", "Walk In")

	got, err := repo.FindByID(context.Background(), p.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID = %v, %v", got, err)
	}
	if got.Gender != "" || got.AgeUnit != "" || got.Age != nil || got.DateOfBirth != nil {
		t.Errorf("blank demographics read back as gender=%q unit=%q age=%v dob=%v", got.Gender, got.AgeUnit, got.Age, got.DateOfBirth)
	}

	missing, err := repo.FindByID(context.Background(), p.ID+100)
	if err != nil || missing != nil {
		t.Errorf("FindByID(missing) = %v, %v", missing, err)
	}
}

func TestPatientCreateDuplicateUHID(t *testing.T) {
	db := requireDB(t)
	seedPatient(t, db, "MED-2024-00007", "First")

	err := NewPatientRepository(db).Create(context.Background(), &entity.Patient{UHID: "MED-2024-00007", FullName: "Second"})
	if !errors.Is(err, domainRepo.ErrDuplicateKey) {
		t.Errorf("err = %v, want ErrDuplicateKey", err)
	}
}

func TestUpdateDemographicsKeepsIdentity(t *testing.T) {
	db := requireDB(t)
	repo := NewPatientRepository(db)
	ctx := context.Background()

	p := seedPatient(t, db, "MED-2024-00010", "Before")
	age := 30
	update := &entity.Patient{
		ID:          p.ID,
		UHID:        p.UHID,
		FullName:    "After",
		PhoneNumber: "9111111111",
		Age:         &age,
		AgeUnit:     entity.AgeUnitYear,
		Gender:      entity.GenderFemale,
	}

	n, err := repo.UpdateDemographics(ctx, update)
	if err != nil || n != 1 {
		t.Fatalf("UpdateDemographics = %d, %v", n, err)
	}

	got, _ := repo.FindByUHID(ctx, "MED-2024-00010")
	if got == nil || got.ID != p.ID || got.FullName != "After" || got.Gender != "F" || got.Age == nil || *got.Age != 30 {
		t.Errorf("after update = %+v", got)
	}

	update.UHID = "MED-2024-00011"
	n, err = repo.UpdateDemographics(ctx, update)
	if err != nil || n != 0 {
		t.Errorf("mismatched uhid updated %d rows, err %v", n, err)
	}
}
