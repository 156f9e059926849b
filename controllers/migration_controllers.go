package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/cafe-pos/services"
	"github.com/yeremiapane/cafe-pos/utils"
)

type MigrationController struct {
	migration *services.MigrationService
}

func NewMigrationController(migration *services.MigrationService) *MigrationController {
	return &MigrationController{migration: migration}
}

func (mc *MigrationController) GetStatus(c *gin.Context) {
	presence, err := mc.migration.CheckDataExists()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Migration status", presence)
}

// RunMigration -> jalankan import fallback -> transactional secara manual.
// Aman diulang: flag + dedup create menjaga idempotensi.
func (mc *MigrationController) RunMigration(c *gin.Context) {
	result, err := mc.migration.MigrateAll()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !result.Success {
		// Error per-entitas dilaporkan sebagai daftar; data fallback
		// dipertahankan untuk dicoba ulang
		utils.RespondJSON(c, http.StatusOK, "Migration finished with errors", result)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Migration completed", result)
}
