package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/repository"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	RoundID     *uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		RoundID:     opts.RoundID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

// UndoLog - Bir audit log'u undo et. Mal kabul silme repository üzerinden
// gider ki türetilmiş tur toplamları aynı transaction içinde düzelsin.
func UndoLog(logID uint, userID uint, userName string, repo *repository.GormRepository) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log bulunamadı: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("bu işlem zaten geri alınmış")
	}

	switch log.Action {
	case models.AuditActionCreate:
		// Create ise entity'yi sil
		if err := deleteEntity(log.EntityType, log.EntityID, repo); err != nil {
			return fmt.Errorf("entity silinemedi: %w", err)
		}

	case models.AuditActionDelete:
		// Delete ise entity'yi geri oluştur
		if err := recreateEntity(log.EntityType, log.AfterData, repo); err != nil {
			return fmt.Errorf("entity geri oluşturulamadı: %w", err)
		}

	default:
		return fmt.Errorf("bu işlem türü geri alınamaz")
	}

	// Log'u işaretle
	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log güncellenemedi: %w", err)
	}

	// Undo işlemi için yeni bir log oluştur
	undoLog := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		RoundID:     log.RoundID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Geri alındı: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log kaydedilemedi: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint, repo *repository.GormRepository) error {
	switch entityType {
	case "order":
		if err := database.DB.Delete(&models.OrderItem{}, "order_id = ?", entityID).Error; err != nil {
			return err
		}
		return database.DB.Delete(&models.Order{}, "id = ?", entityID).Error
	case "receipt":
		// Tur toplamları transaction içinde yeniden hesaplanır
		return repo.DeleteReceipt(entityID)
	case "distribution":
		if err := database.DB.Delete(&models.DistributionItem{}, "distribution_id = ?", entityID).Error; err != nil {
			return err
		}
		return database.DB.Delete(&models.Distribution{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string, repo *repository.GormRepository) error {
	switch entityType {
	case "order":
		var order models.Order
		if err := json.Unmarshal([]byte(dataJSON), &order); err != nil {
			return err
		}
		order.ID = 0
		for i := range order.Items {
			order.Items[i].ID = 0
			order.Items[i].OrderID = 0
		}
		return database.DB.Create(&order).Error

	case "receipt":
		var receipt models.Receipt
		if err := json.Unmarshal([]byte(dataJSON), &receipt); err != nil {
			return err
		}
		receipt.ID = 0
		for i := range receipt.Items {
			receipt.Items[i].ID = 0
			receipt.Items[i].ReceiptID = 0
		}
		return repo.CreateReceipt(&receipt)

	case "distribution":
		var dist models.Distribution
		if err := json.Unmarshal([]byte(dataJSON), &dist); err != nil {
			return err
		}
		dist.ID = 0
		for i := range dist.Items {
			dist.Items[i].ID = 0
			dist.Items[i].DistributionID = 0
		}
		return database.DB.Create(&dist).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}
