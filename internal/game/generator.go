package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"pet-detective-service/internal/domain"
)

// CatalogRepository serves the breed/image rows questions are built from.
type CatalogRepository interface {
	Catalog(ctx context.Context) ([]domain.BreedImage, error)
}

// Predictor supplies the precomputed AI guess shown as the competitor.
type Predictor interface {
	Predict(modelID, breed, imageRef string) (string, float64)
}

// MockPredictor always agrees with the correct answer at a fixed
// confidence, matching the precomputed reference data.
type MockPredictor struct {
	Confidence float64
}

func (p MockPredictor) Predict(_ string, breed, _ string) (string, float64) {
	return breed, p.Confidence
}

// Generator builds questions from the catalog: it picks a random correct
// breed, one of its images, and distractors drawn from the same animal
// type, padding from the other type only when the same type is exhausted.
type Generator struct {
	rules   Rules
	catalog CatalogRepository
	predict Predictor

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGenerator(rules Rules, catalog CatalogRepository, predict Predictor) *Generator {
	if predict == nil {
		predict = MockPredictor{Confidence: 0.95}
	}
	return &Generator{
		rules:   rules,
		catalog: catalog,
		predict: predict,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewGeneratorWithRand pins the random source for deterministic tests.
func NewGeneratorWithRand(rules Rules, catalog CatalogRepository, predict Predictor, rnd *rand.Rand) *Generator {
	g := NewGenerator(rules, catalog, predict)
	g.rnd = rnd
	return g
}

type breedGroup struct {
	animalType domain.AnimalType
	images     []string
}

// Next implements QuestionSource.
func (g *Generator) Next(ctx context.Context, difficulty domain.Difficulty, filter domain.AnimalFilter, modelID string) (domain.Question, error) {
	rule, ok := g.rules.Rule(difficulty)
	if !ok || !filter.Valid() {
		return domain.Question{}, domain.ErrInvalidInput
	}

	rows, err := g.catalog.Catalog(ctx)
	if err != nil {
		return domain.Question{}, fmt.Errorf("load catalog: %w", err)
	}

	groups := make(map[string]*breedGroup)
	var eligible []string
	for _, row := range rows {
		if row.Breed == "" || row.ImageRef == "" {
			continue
		}
		animalType := row.AnimalType
		if animalType == "" {
			animalType = domain.ClassifyBreed(row.Breed)
		}
		if !filter.Matches(animalType) {
			continue
		}
		group, ok := groups[row.Breed]
		if !ok {
			group = &breedGroup{animalType: animalType}
			groups[row.Breed] = group
			eligible = append(eligible, row.Breed)
		}
		group.images = append(group.images, row.ImageRef)
	}

	if len(eligible) < rule.OptionCount {
		return domain.Question{}, domain.ErrQuestionUnavailable
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	correct := eligible[g.rnd.Intn(len(eligible))]
	group := groups[correct]
	imageRef := group.images[g.rnd.Intn(len(group.images))]

	var sameType, otherType []string
	for _, breed := range eligible {
		if breed == correct {
			continue
		}
		if groups[breed].animalType == group.animalType {
			sameType = append(sameType, breed)
		} else {
			otherType = append(otherType, breed)
		}
	}

	needed := rule.OptionCount - 1
	distractors := sample(g.rnd, sameType, needed)
	if len(distractors) < needed {
		distractors = append(distractors, sample(g.rnd, otherType, needed-len(distractors))...)
	}
	if len(distractors) < needed {
		return domain.Question{}, domain.ErrQuestionUnavailable
	}

	options := append([]string{correct}, distractors...)
	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	prediction, confidence := g.predict.Predict(modelID, correct, imageRef)
	return domain.Question{
		ImageRef:      imageRef,
		Options:       options,
		CorrectAnswer: correct,
		AIPrediction:  prediction,
		AIConfidence:  confidence,
	}, nil
}

// sample draws up to n distinct elements without mutating the input.
func sample(rnd *rand.Rand, pool []string, n int) []string {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	shuffled := append([]string(nil), pool...)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
