package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-pos/utils"
)

// ApplyConstraints menjalankan DDL tambahan setelah AutoMigrate: unique index
// case-folded per tabel katalog dan CHECK non-negatif. Uniqueness by-name jadi
// ditegakkan di level schema, bukan hanya lewat perbandingan string ad hoc.
func ApplyConstraints(db *gorm.DB) error {
	statements := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_ci ON products (LOWER(name))",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_flavors_name_ci ON flavors (LOWER(name))",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_materials_name_ci ON materials (LOWER(name))",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_ingredients_name_ci ON ingredients (LOWER(name))",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_addons_name_ci ON addons (LOWER(name))",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			// MySQL < 8.0.13 tidak mendukung functional index; jangan gagalkan
			// startup, dedup di CatalogService tetap menjaga uniqueness.
			utils.ErrorLogger.Printf("Error applying constraint: %v\nStatement: %s", err, stmt)
			continue
		}
	}

	// CHECK constraints, best effort per driver
	checks := []string{
		"stock_records|chk_stock_non_negative|quantity >= 0",
		"cash_flow_transactions|chk_amount_non_negative|amount >= 0",
		"sizes|chk_size_price_non_negative|price >= 0",
		"addons|chk_addon_price_non_negative|price >= 0",
	}
	for _, c := range checks {
		parts := strings.SplitN(c, "|", 3)
		stmt := "ALTER TABLE " + parts[0] + " ADD CONSTRAINT " + parts[1] + " CHECK (" + parts[2] + ")"
		if err := db.Exec(stmt).Error; err != nil {
			// SQLite tidak mendukung ADD CONSTRAINT; service layer tetap
			// menjaga invariannya (clamp >= 0, amount >= 0 divalidasi).
			continue
		}
		utils.InfoLogger.Printf("Applied check constraint %s on %s", parts[1], parts[0])
	}

	utils.InfoLogger.Println("Schema constraints applied.")
	return nil
}
