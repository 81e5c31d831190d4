package database

import (
	"dagitim-backend/internal/config"
	"dagitim-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	// Eski kurulumlarda products tablosunda image_path/notes kolonları yok,
	// AutoMigrate ekler; round_inventories unique index'i ise elle kontrol
	// ediliyor çünkü AutoMigrate mevcut duplicate kayıtlarda patlayabilir.
	if DB.Migrator().HasTable(&models.RoundInventory{}) {
		var dupCount int64
		DB.Raw(`
			SELECT COUNT(*) FROM (
				SELECT round_id, product_id
				FROM round_inventories
				GROUP BY round_id, product_id
				HAVING COUNT(*) > 1
			) d
		`).Scan(&dupCount)
		if dupCount > 0 {
			logrus.Warnf("round_inventories tablosunda %d adet duplicate (round_id, product_id) bulundu, eski kayıtlar temizleniyor...", dupCount)
			DB.Exec(`
				DELETE FROM round_inventories a
				USING round_inventories b
				WHERE a.round_id = b.round_id
				  AND a.product_id = b.product_id
				  AND a.id < b.id
			`)
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Round{},
		&models.Product{},
		&models.Shop{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Receipt{},
		&models.ReceiptItem{},
		&models.RoundInventory{},
		&models.Distribution{},
		&models.DistributionItem{},
		&models.AuditLog{},
	)
	if err != nil {
		logrus.Fatalf("AutoMigrate hatası: %v", err)
	}

	logrus.Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
