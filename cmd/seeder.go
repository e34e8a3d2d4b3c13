package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/pontocerto/timeclock/internal/accountant"
	"github.com/pontocerto/timeclock/internal/client"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
	"github.com/pontocerto/timeclock/internal/employee"
	"github.com/pontocerto/timeclock/internal/timerecord"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"time_records", "employees", "clients", "accountants"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("mudar123"), bcrypt.DefaultCost)
		history := datamodel.PasswordHistory{
			{CredentialHash: string(hash), IssuedAt: time.Now()},
		}
		now := time.Now()

		accEmail := "maria@contabilsilva.com.br"
		var exists int64
		db.Model(&accountant.Accountant{}).Where("email = ?", accEmail).Count(&exists)
		if exists > 0 {
			fmt.Println("sample accountant already exists, nothing to seed")
			return
		}

		acc := &accountant.Accountant{
			ID:              uuid.New().String(),
			Name:            "Maria Silva",
			Company:         "Contabilidade Silva",
			Email:           accEmail,
			Phone:           "11987654321",
			Status:          datamodel.StatusActive,
			Plan:            accountant.PlanProfessional,
			ClientCount:     1,
			PasswordHistory: history,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := db.Create(acc).Error; err != nil {
			log.Fatalf("failed to seed accountant: %v", err)
		}
		fmt.Println("Seeded accountant:", acc.Email)

		cli := &client.Client{
			ID:              uuid.New().String(),
			AccountantID:    acc.ID,
			Name:            "Carlos Souza",
			Company:         "Padaria Souza",
			Email:           "carlos@padariasouza.com.br",
			Phone:           "11912345678",
			Status:          datamodel.StatusActive,
			PasswordHistory: history,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := db.Create(cli).Error; err != nil {
			log.Fatalf("failed to seed client: %v", err)
		}
		fmt.Println("Seeded client:", cli.Company)

		emp := &employee.Employee{
			ID:              uuid.New().String(),
			ClientID:        cli.ID,
			Name:            "Pedro Santos",
			Email:           "pedro@padariasouza.com.br",
			Phone:           "11998765432",
			Status:          datamodel.StatusActive,
			PasswordHistory: history,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := db.Create(emp).Error; err != nil {
			log.Fatalf("failed to seed employee: %v", err)
		}
		fmt.Println("Seeded employee:", emp.Name)

		overtime := 1.5
		records := []*timerecord.TimeRecord{
			{
				ID:         uuid.New().String(),
				EmployeeID: emp.ID,
				Type:       timerecord.TypeEntry,
				Timestamp:  now.Add(-9 * time.Hour),
				CreatedAt:  now,
			},
			{
				ID:         uuid.New().String(),
				EmployeeID: emp.ID,
				Type:       timerecord.TypeExit,
				Overtime:   &overtime,
				Timestamp:  now.Add(-30 * time.Minute),
				CreatedAt:  now,
			},
		}
		for _, rec := range records {
			if err := db.Create(rec).Error; err != nil {
				log.Fatalf("failed to seed time record: %v", err)
			}
		}
		fmt.Println("Seeded time records for", emp.Name)

		fmt.Println("Sample data seeded successfully")
	},
}
