package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

var defaultRoles = []models.Role{
	{Name: "superadmin", Description: ptr("Full platform control")},
	{Name: "admin", Description: ptr("Administrator role")},
	{Name: "manager", Description: ptr("Manager role")},
	{Name: "staff", Description: ptr("Staff member role")},
}

// SeedDefaultRoles ensures the bootstrap roles exist. Idempotent; each role
// is attempted independently and failures are aggregated. Lookup and create
// share a transaction per role so concurrent boots cannot double insert.
func SeedDefaultRoles(ctx context.Context, client *Client, logg *logger.Logger) error {
	var errs error
	for _, role := range defaultRoles {
		seed := role
		created := false
		err := client.WithTx(ctx, func(tx *gorm.DB) error {
			err := tx.Where("name = ?", seed.Name).First(&models.Role{}).Error
			if err == nil {
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("lookup role %s: %w", seed.Name, err)
			}
			if err := tx.Create(&seed).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", seed.Name, err)
			}
			created = true
			return nil
		})
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if created && logg != nil {
			logg.Info(logg.WithField(ctx, "role", seed.Name), "seeded default role")
		}
	}
	return errs
}

func ptr(s string) *string {
	return &s
}
