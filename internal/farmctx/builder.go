// Package farmctx renders a farmer's records into the plain-text summary that
// is embedded in farm-aware prompts.
//
// Farm and field attributes that are missing render as placeholders
// ("Unknown Farm", "Not specified", "0"). Crop attributes that are missing are
// left out entirely.
package farmctx

import (
	"fmt"
	"strings"

	"farmer-chatbot/internal/models"
)

const noFarmData = "No farm data available yet."

// Build renders profile. Identical input always gives identical output.
func Build(profile models.FarmerProfile) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Farmer: %s\n", orDefault(profile.FullName, "Unknown"))
	fmt.Fprintf(&sb, "Location: %s\n", orDefault(profile.Location, "Not specified"))
	fmt.Fprintf(&sb, "Total Farms: %d\n", len(profile.Farms))

	if len(profile.Farms) == 0 {
		sb.WriteString(noFarmData)
		return sb.String()
	}

	for i, farm := range profile.Farms {
		writeFarm(&sb, i+1, farm)
	}
	return sb.String()
}

func writeFarm(sb *strings.Builder, n int, farm models.Farm) {
	fmt.Fprintf(sb, "\nFarm %d: %s\n", n, orDefault(farm.Name, "Unknown Farm"))
	fmt.Fprintf(sb, "  Size: %s hectares\n", orDefault(string(farm.Size), "0"))
	fmt.Fprintf(sb, "  Location: %s\n", orDefault(farm.Location, "Not specified"))

	if len(farm.Fields) == 0 {
		return
	}

	fmt.Fprintf(sb, "  Fields: %d\n", len(farm.Fields))
	for _, field := range farm.Fields {
		fmt.Fprintf(sb, "    - %s (%s ha, %s)\n",
			orDefault(field.Name, "Unknown Field"),
			orDefault(string(field.Size), "0"),
			orDefault(field.SoilType, "unknown soil"))

		if len(field.Crops) == 0 {
			continue
		}
		sb.WriteString("      Crops:\n")
		for _, crop := range field.Crops {
			sb.WriteString("        • ")
			sb.WriteString(CropLine(crop))
			sb.WriteString("\n")
		}
	}
}

// CropLine renders one crop, appending only the attributes that are present
func CropLine(crop models.CropRecord) string {
	line := orDefault(crop.Name, "Unknown")
	if v := strings.TrimSpace(crop.Variety); v != "" {
		line += " (" + v + ")"
	}
	if s := strings.TrimSpace(crop.Status); s != "" {
		line += " - Status: " + s
	}
	if d := strings.TrimSpace(crop.PlantingDate); d != "" {
		line += " - Planted: " + d
	}
	if d := strings.TrimSpace(crop.ExpectedHarvestDate); d != "" {
		line += " - Expected Harvest: " + d
	}
	return line
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
