package seeders

import (
	"errors"

	"gorm.io/gorm"

	serviceModel "home-booking/models/service"
)

// SeedServices inserts the default service catalog. Existing entries are
// left untouched so re-running the seeder is safe.
func SeedServices(db *gorm.DB) error {
	services := []serviceModel.Service{
		{Name: "Home Deep Cleaning", Category: "cleaning", Description: "Full-home deep cleaning including kitchen and bathrooms", Price: 120.00},
		{Name: "Sofa Cleaning", Category: "cleaning", Description: "Shampoo and vacuum cleaning for up to 5 seats", Price: 45.00},
		{Name: "Plumbing Repair", Category: "plumbing", Description: "Leak fixing, tap and pipe replacement", Price: 60.00},
		{Name: "Electrical Wiring", Category: "electrical", Description: "Switchboard, wiring and fixture installation", Price: 75.00},
		{Name: "AC Service", Category: "appliances", Description: "Split/window AC gas check and full service", Price: 50.00},
		{Name: "Pest Control", Category: "cleaning", Description: "Cockroach, ant and general pest treatment", Price: 80.00},
		{Name: "Painting", Category: "renovation", Description: "Interior wall painting, per room", Price: 150.00},
		{Name: "Carpentry", Category: "renovation", Description: "Furniture repair and small woodwork", Price: 55.00},
	}

	for _, s := range services {
		var existing serviceModel.Service
		err := db.Where("name = ?", s.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		s.IsActive = true
		if err := db.Create(&s).Error; err != nil {
			return err
		}
	}

	return nil
}
