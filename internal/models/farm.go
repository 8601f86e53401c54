package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FarmerProfile is a farmer with the farms resolved by the user-lookup service
type FarmerProfile struct {
	FullName string `json:"full_name"`
	Location string `json:"location"`
	Farms    []Farm `json:"farms"`
}

// Farm belonging to a farmer
type Farm struct {
	Name     string   `json:"name"`
	Size     Quantity `json:"size"`
	Location string   `json:"location"`
	Fields   []Field  `json:"fields"`
}

// Field within a farm
type Field struct {
	Name     string       `json:"name"`
	Size     Quantity     `json:"size"`
	SoilType string       `json:"soil_type"`
	Crops    []CropRecord `json:"crops"`
}

// CropRecord is a crop planted in a field
type CropRecord struct {
	Name                string `json:"name"`
	Variety             string `json:"variety"`
	Status              string `json:"status"`
	PlantingDate        string `json:"planting_date"`
	ExpectedHarvestDate string `json:"expected_harvest_date"`
}

// Quantity keeps a size exactly as the data service sent it.
// The service returns sizes as either JSON numbers or strings.
type Quantity string

// UnmarshalJSON accepts numbers, strings and null
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = Quantity(n.String())
	return nil
}

// FarmSummary is the flat record returned by the marketing-data service
type FarmSummary struct {
	FarmName string      `json:"farm_name"`
	Location string      `json:"location"`
	Size     Quantity    `json:"size"`
	Crops    interface{} `json:"crops"`
}
