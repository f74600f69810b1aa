// Package catalog содержит фиксированный каталог тарифных пакетов.
package catalog

import (
	"strings"

	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

// Тарифы бэкенда.
const (
	TierEssentials = "ESSENTIALS"
	TierStandard   = "STANDARD"
	TierPremium    = "PREMIUM"
)

var packages = []models.Package{
	{
		ID:                   "essentials",
		Name:                 "Essentials",
		Tier:                 TierEssentials,
		MonthlyDeliveryPrice: 80000,
		WeeklyDeliveryPrice:  95000,
		Features: []string{
			"Staple grains and tubers",
			"Fresh vegetables",
			"Cooking oil and spices",
		},
	},
	{
		ID:                   "standard",
		Name:                 "Standard",
		Tier:                 TierStandard,
		MonthlyDeliveryPrice: 140000,
		WeeklyDeliveryPrice:  165000,
		Features: []string{
			"Everything in Essentials",
			"Fresh fruit",
			"Protein: chicken, fish and eggs",
		},
	},
	{
		ID:                   "premium",
		Name:                 "Premium",
		Tier:                 TierPremium,
		MonthlyDeliveryPrice: 200000,
		WeeklyDeliveryPrice:  235000,
		Features: []string{
			"Everything in Standard",
			"Premium cuts and seafood",
			"Priority delivery slot",
		},
	},
}

// Packages возвращает копию каталога.
func Packages() []models.Package {
	out := make([]models.Package, len(packages))
	copy(out, packages)
	return out
}

// Find ищет пакет по имени без учёта регистра.
func Find(name string) (models.Package, bool) {
	for _, p := range packages {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return models.Package{}, false
}

// ByTier ищет пакет по тарифу бэкенда.
func ByTier(tier string) (models.Package, bool) {
	for _, p := range packages {
		if strings.EqualFold(p.Tier, tier) {
			return p, true
		}
	}
	return models.Package{}, false
}
