package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// NutritionClient looks up per-food nutrient profiles from the Edamam food
// database. Used by the vision estimator to turn detected labels into
// numbers.
type NutritionClient struct {
	appID  string
	appKey string
	client *http.Client
}

func NewNutritionClient() *NutritionClient {
	return &NutritionClient{
		appID:  os.Getenv("EDAMAM_APP_ID"),
		appKey: os.Getenv("EDAMAM_APP_KEY"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NutrientProfile holds per-serving nutrient quantities for one food.
type NutrientProfile struct {
	Label    string
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
	FiberG   float64
	SugarG   float64
}

type foodParserResponse struct {
	Hints []struct {
		Food struct {
			FoodID    string             `json:"foodId"`
			Label     string             `json:"label"`
			Nutrients map[string]float64 `json:"nutrients"`
		} `json:"food"`
	} `json:"hints"`
}

// Lookup resolves a food name to its nutrient profile via the parser
// endpoint, taking the first hint.
func (c *NutritionClient) Lookup(query string) (*NutrientProfile, error) {
	u := fmt.Sprintf(
		"https://api.edamam.com/api/food-database/v2/parser?ingr=%s&app_id=%s&app_key=%s",
		url.QueryEscape(query), c.appID, c.appKey,
	)

	resp, err := c.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call nutrition parser: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read nutrition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nutrition API error %d: %s", resp.StatusCode, string(body))
	}

	var pr foodParserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition JSON: %w", err)
	}
	if len(pr.Hints) == 0 {
		return nil, fmt.Errorf("no nutrition data for %q", query)
	}

	n := pr.Hints[0].Food.Nutrients
	return &NutrientProfile{
		Label:    pr.Hints[0].Food.Label,
		Calories: n["ENERC_KCAL"],
		ProteinG: n["PROCNT"],
		CarbsG:   n["CHOCDF"],
		FatG:     n["FAT"],
		FiberG:   n["FIBTG"],
		SugarG:   n["SUGAR"],
	}, nil
}
