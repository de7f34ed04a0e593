package database

import (
	"fmt"
	"time"

	"divemanager/pkg/metadata"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedDemoData loads a small demonstration data set on first run. It does
// nothing when any user row already exists, so restarting the service never
// duplicates the seed.
func SeedDemoData(db *goqu.Database, log *zap.Logger) error {
	var userCount int64
	if _, err := db.Select(goqu.COUNT("id")).From("users").Executor().ScanVal(&userCount); err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if userCount > 0 {
		log.Info("Seed skipped, user rows already present")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start seed transaction: %w", err)
	}
	defer tx.Rollback()

	jean := uuid.NewString()
	marie := uuid.NewString()
	pierre := uuid.NewString()
	sophie := uuid.NewString()

	users := []goqu.Record{
		{"id": jean, "name": "Jean Dupont", "email": "jean.dupont@club-plongee.com", "license_number": "FFESSM-123456", "certification_level": "Niveau 2", "role": "user"},
		{"id": marie, "name": "Marie Martin", "email": "marie.martin@club-plongee.com", "license_number": "FFESSM-789012", "certification_level": "Niveau 3", "role": "user"},
		{"id": pierre, "name": "Pierre Dubois", "email": "pierre.dubois@club-plongee.com", "license_number": "FFESSM-345678", "certification_level": "Moniteur E3", "role": "manager"},
		{"id": sophie, "name": "Sophie Leroy", "email": "sophie.leroy@club-plongee.com", "license_number": "FFESSM-901234", "certification_level": "Instructeur", "role": "admin"},
	}
	if _, err := tx.Insert("users").Rows(users).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	userTags := []goqu.Record{
		{"code": "USER-001-QR", "user_id": jean},
		{"code": "USER-002-QR", "user_id": marie},
		{"code": "USER-003-QR", "user_id": pierre},
		{"code": "USER-004-QR", "user_id": sophie},
	}
	if _, err := tx.Insert("user_tags").Rows(userTags).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to seed user tags: %w", err)
	}

	regulator := uuid.NewString()
	wetsuit := uuid.NewString()
	mask := uuid.NewString()
	fins := uuid.NewString()
	bcd := uuid.NewString()
	tank := uuid.NewString()
	maskIssueDate := time.Now().Add(-7 * 24 * time.Hour)

	assets := []goqu.Record{
		{"id": regulator, "name": "Scubapro MK25 EVO Regulator", "serial_number": "SP2023001", "asset_tag": "DET-001", "category": "Regulators", "model": "MK25 EVO", "manufacturer": "Scubapro", "status": metadata.StatusCheckedOut, "assigned_to_user_id": jean, "location": "Dive Club - Locker Room", "notes": "Serviced January 2024"},
		{"id": wetsuit, "name": "5mm Neoprene Wetsuit", "serial_number": "NEO2023002", "asset_tag": "COM-002", "category": "Wetsuits", "model": "Neoprene 5mm Size L", "manufacturer": "Beuchat", "status": metadata.StatusAvailable, "location": "Dive Club - Storage", "notes": "Size L, good overall condition"},
		{"id": mask, "name": "Cressi Big Eyes Evolution Mask", "serial_number": "CR2023003", "asset_tag": "MAS-003", "category": "Masks", "model": "Big Eyes Evolution", "manufacturer": "Cressi", "status": metadata.StatusDefective, "location": "Dive Club - Maintenance", "notes": "Broken strap, awaiting repair", "has_issues": true, "issue_count": 1, "last_issue_date": maskIssueDate},
		{"id": fins, "name": "Mares Avanti Quattro Plus Fins", "serial_number": "MA2023004", "asset_tag": "PAL-004", "category": "Fins", "model": "Avanti Quattro Plus 42-43", "manufacturer": "Mares", "status": metadata.StatusMaintenance, "location": "Dive Club - Maintenance", "notes": "Cleaning and strap inspection"},
		{"id": bcd, "name": "Aqualung Pro HD BCD", "serial_number": "AQ2023005", "asset_tag": "GIL-005", "category": "BCDs", "model": "Pro HD Size M", "manufacturer": "Aqualung", "status": metadata.StatusCheckedOut, "assigned_to_user_id": marie, "location": "Dive Club - On Dive", "notes": "Size M, excellent condition"},
		{"id": tank, "name": "12L Steel Tank", "serial_number": "BT2023006", "asset_tag": "BOU-006", "category": "Tanks", "model": "12L Steel 232 bar", "manufacturer": "Roth", "status": metadata.StatusAvailable, "location": "Dive Club - Compressor", "notes": "Hydro test valid until 2025"},
	}
	if _, err := tx.Insert("assets").Rows(assets).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to seed assets: %w", err)
	}

	assetTags := []goqu.Record{
		{"code": "DET-001-QR", "asset_id": regulator},
		{"code": "COM-002-QR", "asset_id": wetsuit},
		{"code": "MAS-003-QR", "asset_id": mask},
		{"code": "PAL-004-QR", "asset_id": fins},
		{"code": "GIL-005-QR", "asset_id": bcd},
		{"code": "BOU-006-QR", "asset_id": tank},
	}
	if _, err := tx.Insert("asset_tags").Rows(assetTags).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to seed asset tags: %w", err)
	}

	movements := []goqu.Record{
		{"id": uuid.NewString(), "asset_id": regulator, "user_id": jean, "type": metadata.MovementCheckout, "notes": "Wreck dive trip", "performed_by": "Pierre Dubois", "method": metadata.MethodQRScan},
		{"id": uuid.NewString(), "asset_id": mask, "user_id": marie, "type": metadata.MovementCheckin, "notes": "Returned with broken strap", "performed_by": "Pierre Dubois", "has_issues": true, "issue_description": "Mask strap snapped during the dive", "method": metadata.MethodManual},
		{"id": uuid.NewString(), "asset_id": fins, "user_id": pierre, "type": metadata.MovementMaintenance, "notes": "Preventive maintenance", "performed_by": "Pierre Dubois", "method": metadata.MethodManual},
		{"id": uuid.NewString(), "asset_id": bcd, "user_id": marie, "type": metadata.MovementCheckout, "notes": "Open Water training", "performed_by": "Sophie Leroy", "method": metadata.MethodQRScan},
	}
	if _, err := tx.Insert("movements").Rows(movements).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to seed movements: %w", err)
	}

	issue := goqu.Record{
		"id":          uuid.NewString(),
		"asset_id":    mask,
		"title":       "Problem reported on return",
		"description": "Mask strap snapped during the dive",
		"severity":    metadata.SeverityMedium,
		"status":      metadata.IssueOpen,
		"reported_by": "Pierre Dubois",
		"reported_at": maskIssueDate,
	}
	if _, err := tx.Insert("issues").Rows(issue).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to seed issues: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	log.Info("Seeded demonstration data")
	return nil
}
