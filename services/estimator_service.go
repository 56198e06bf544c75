package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// NutritionEstimate is the estimator's output for one photographed meal.
type NutritionEstimate struct {
	Description string  `json:"description"`
	Calories    float64 `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
	FiberG      float64 `json:"fiber_g"`
	SugarG      float64 `json:"sugar_g"`
	Confidence  float64 `json:"confidence"` // in [0,1]
}

// VisionEstimator turns image bytes into a nutrient estimate. Opaque to the
// aggregation core; only the entry write path calls it.
type VisionEstimator interface {
	EstimateFromImage(ctx context.Context, image []byte) (*NutritionEstimate, error)
}

// RekognitionEstimator detects food labels with AWS Rekognition and prices
// each label through the nutrition database.
type RekognitionEstimator struct {
	client    *rekognition.Client
	nutrition *NutritionClient
}

func NewRekognitionEstimator(nutrition *NutritionClient) (*RekognitionEstimator, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionEstimator{
		client:    rekognition.NewFromConfig(cfg),
		nutrition: nutrition,
	}, nil
}

func (r *RekognitionEstimator) EstimateFromImage(ctx context.Context, image []byte) (*NutritionEstimate, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(60),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	est := &NutritionEstimate{Confidence: 1.0}
	var names []string
	for _, l := range out.Labels {
		if l.Name == nil || !isFoodLabel(*l.Name) {
			continue
		}
		profile, err := r.nutrition.Lookup(*l.Name)
		if err != nil {
			continue
		}
		names = append(names, profile.Label)
		est.Calories += profile.Calories
		est.ProteinG += profile.ProteinG
		est.CarbsG += profile.CarbsG
		est.FatG += profile.FatG
		est.FiberG += profile.FiberG
		est.SugarG += profile.SugarG
		if l.Confidence != nil {
			c := float64(*l.Confidence) / 100.0
			if c < est.Confidence {
				est.Confidence = c
			}
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no food detected in image")
	}
	est.Description = strings.Join(names, ", ")
	return est, nil
}

// Labels Rekognition emits for non-food context that should not be priced.
var nonFoodLabels = map[string]struct{}{
	"Plate": {}, "Bowl": {}, "Cutlery": {}, "Fork": {}, "Spoon": {},
	"Table": {}, "Dining Table": {}, "Person": {}, "Restaurant": {},
}

func isFoodLabel(name string) bool {
	_, skip := nonFoodLabels[name]
	return !skip
}
