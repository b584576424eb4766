package db

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"gorm.io/gorm"
)

func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "20240301_create_companies_and_projects",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.Company{}, &model.Project{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("projects", "companies")
			},
		},
		{
			ID: "20240301_create_users",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.User{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("users")
			},
		},
		{
			ID: "20240315_create_documents_and_photos",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.PhotoCategory{}, &model.Document{}, &model.Photo{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("photos", "documents", "photo_categories")
			},
		},
		{
			ID: "20240402_create_core_store",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.SettingsEntry{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("core_store")
			},
		},
		{
			ID: "20240520_create_project_audit_logs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.ProjectAuditLog{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("project_audit_logs")
			},
		},
		{
			ID: "20240611_add_photo_sha256",
			Migrate: func(tx *gorm.DB) error {
				if tx.Migrator().HasColumn(&model.Photo{}, "SHA256") {
					return nil
				}
				return tx.Migrator().AddColumn(&model.Photo{}, "SHA256")
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropColumn(&model.Photo{}, "SHA256")
			},
		},
	}
}

// Migrate applies every pending migration.
func Migrate(gdb *gorm.DB) error {
	return gormigrate.New(gdb, gormigrate.DefaultOptions, Migrations()).Migrate()
}

// RollbackLast reverts the most recently applied migration.
func RollbackLast(gdb *gorm.DB) error {
	return gormigrate.New(gdb, gormigrate.DefaultOptions, Migrations()).RollbackLast()
}
