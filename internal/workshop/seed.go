package workshop

import (
	"context"

	"garagepro/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultServices is the starter price list for a new garage
var DefaultServices = []domain.Service{
	{Name: "General Service", Description: "Engine oil, oil filter, air filter check and general inspection", Price: decimal.NewFromInt(1500), EstimatedTime: "3 hours", Category: "Maintenance"},
	{Name: "Oil Change", Description: "Engine oil and oil filter replacement", Price: decimal.NewFromInt(800), EstimatedTime: "45 minutes", Category: "Maintenance"},
	{Name: "Brake Service", Description: "Brake pad inspection, cleaning and adjustment", Price: decimal.NewFromInt(1200), EstimatedTime: "1.5 hours", Category: "Brakes"},
	{Name: "Brake Pad Replacement", Description: "Front brake pad replacement", Price: decimal.NewFromInt(2000), EstimatedTime: "1 hour", Category: "Brakes"},
	{Name: "Wheel Alignment", Description: "Computerised wheel alignment", Price: decimal.NewFromInt(600), EstimatedTime: "45 minutes", Category: "Tyres & Wheels"},
	{Name: "Wheel Balancing", Description: "Balancing of all four wheels", Price: decimal.NewFromInt(400), EstimatedTime: "30 minutes", Category: "Tyres & Wheels"},
	{Name: "AC Service", Description: "AC gas top-up, filter cleaning and cooling check", Price: decimal.NewFromInt(1800), EstimatedTime: "2 hours", Category: "Air Conditioning"},
	{Name: "Battery Check", Description: "Battery health test and terminal cleaning", Price: decimal.NewFromInt(200), EstimatedTime: "20 minutes", Category: "Electrical"},
	{Name: "Car Wash", Description: "Exterior foam wash and interior vacuum", Price: decimal.NewFromInt(500), EstimatedTime: "1 hour", Category: "Cleaning"},
}

// SeedServices adds the default services when the catalog is empty and
// returns how many were added.
func (s *Service) SeedServices(ctx context.Context) (int, error) {
	existing, err := s.repos.Services.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, svc := range DefaultServices {
		svc := svc
		if err := s.repos.Services.Create(ctx, &svc); err != nil {
			return 0, err
		}
	}
	s.logger.WithField("count", len(DefaultServices)).Info("Seeded default services")
	return len(DefaultServices), nil
}
