package core

import "strings"

// Settings is the parsed configuration grid: allocation categories with
// their targets, and the asset-name universe.
type Settings struct {
	Categories []CategorySetting `json:"categories"`
	Assets     []AssetSetting    `json:"assets"`
}

// ActiveCategoryNames returns the configured category names in
// configuration order.
func (s Settings) ActiveCategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		if c.Active {
			names = append(names, c.Name)
		}
	}
	return names
}

// ActiveAssetNames returns the configured asset names in configuration
// order.
func (s Settings) ActiveAssetNames() []string {
	names := make([]string, 0, len(s.Assets))
	for _, a := range s.Assets {
		if a.Active {
			names = append(names, a.Name)
		}
	}
	return names
}

// TotalTarget sums the active categories' target percentages; the
// settings page shows it so a drifting total is easy to spot.
func (s Settings) TotalTarget() float64 {
	var total float64
	for _, c := range s.Categories {
		if c.Active {
			total += c.Target
		}
	}
	return total
}

// ParseSettingsGrid reads the positional settings worksheet: row 1 is a
// header, then column A/B/C hold category name, active flag and target
// percent while column D/E hold asset name and active flag. A missing
// active cell counts as active and an unparseable target reads as zero.
// onlyActive drops the switched-off entries.
func ParseSettingsGrid(grid [][]string, onlyActive bool) Settings {
	s := Settings{
		Categories: []CategorySetting{},
		Assets:     []AssetSetting{},
	}
	for i, row := range grid {
		if i == 0 {
			continue
		}
		if len(row) >= 1 && strings.TrimSpace(row[0]) != "" {
			c := CategorySetting{
				Name:   strings.TrimSpace(row[0]),
				Active: flagActive(row, 1),
			}
			if len(row) >= 3 {
				c.Target = ParseAmount(row[2])
			}
			if c.Active || !onlyActive {
				s.Categories = append(s.Categories, c)
			}
		}
		if len(row) >= 4 && strings.TrimSpace(row[3]) != "" {
			a := AssetSetting{
				Name:   strings.TrimSpace(row[3]),
				Active: flagActive(row, 4),
			}
			if a.Active || !onlyActive {
				s.Assets = append(s.Assets, a)
			}
		}
	}
	return s
}

func flagActive(row []string, col int) bool {
	if len(row) <= col {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(row[col]), "TRUE")
}
