package game

import (
	"context"
	"math/rand"
	"testing"

	"pet-detective-service/internal/domain"
)

type staticCatalog struct {
	rows []domain.BreedImage
}

func (c staticCatalog) Catalog(_ context.Context) ([]domain.BreedImage, error) {
	return c.rows, nil
}

func testCatalog() staticCatalog {
	breeds := map[string][]string{
		"Siamese":      {"pets/siamese_1.jpg"},
		"Persian":      {"pets/persian_1.jpg"},
		"Bengal":       {"pets/bengal_1.jpg"},
		"Ragdoll":      {"pets/ragdoll_1.jpg"},
		"Russian Blue": {"pets/russian_blue_1.jpg"},
		"Sphynx":       {"pets/sphynx_1.jpg"},
		"Beagle":       {"pets/beagle_1.jpg", "pets/beagle_2.jpg"},
		"Boxer":        {"pets/boxer_1.jpg"},
		"Pug":          {"pets/pug_1.jpg"},
		"Samoyed":      {"pets/samoyed_1.jpg"},
	}
	var rows []domain.BreedImage
	for breed, images := range breeds {
		for _, img := range images {
			rows = append(rows, domain.BreedImage{
				Breed:      breed,
				AnimalType: domain.ClassifyBreed(breed),
				ImageRef:   img,
			})
		}
	}
	return staticCatalog{rows: rows}
}

func newTestGenerator(rows staticCatalog) *Generator {
	return NewGeneratorWithRand(DefaultRules(), rows, nil, rand.New(rand.NewSource(42)))
}

func TestGeneratorOptionCountByDifficulty(t *testing.T) {
	gen := newTestGenerator(testCatalog())

	cases := []struct {
		difficulty domain.Difficulty
		want       int
	}{
		{domain.DifficultyEasy, 4},
		{domain.DifficultyMedium, 4},
		{domain.DifficultyHard, 6},
	}
	for _, tc := range cases {
		question, err := gen.Next(context.Background(), tc.difficulty, domain.FilterBoth, "resnet")
		if err != nil {
			t.Fatalf("%s: %v", tc.difficulty, err)
		}
		if len(question.Options) != tc.want {
			t.Fatalf("%s: expected %d options, got %d", tc.difficulty, tc.want, len(question.Options))
		}
	}
}

func TestGeneratorCorrectAnswerInOptions(t *testing.T) {
	gen := newTestGenerator(testCatalog())

	for i := 0; i < 50; i++ {
		question, err := gen.Next(context.Background(), domain.DifficultyMedium, domain.FilterBoth, "")
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		found := 0
		for _, opt := range question.Options {
			if opt == question.CorrectAnswer {
				found++
			}
		}
		if found != 1 {
			t.Fatalf("expected exactly one correct option, got %d in %+v", found, question.Options)
		}
		if question.ImageRef == "" {
			t.Fatalf("missing image ref")
		}
	}
}

func TestGeneratorHonorsAnimalFilter(t *testing.T) {
	gen := newTestGenerator(testCatalog())

	for i := 0; i < 30; i++ {
		question, err := gen.Next(context.Background(), domain.DifficultyMedium, domain.FilterCats, "")
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if domain.ClassifyBreed(question.CorrectAnswer) != domain.AnimalCat {
			t.Fatalf("cats filter produced %q", question.CorrectAnswer)
		}
	}
}

func TestGeneratorDistractorsPreferSameAnimalType(t *testing.T) {
	gen := newTestGenerator(testCatalog())

	// Both filter, medium (4 options): 6 cats and 4 dogs are available, so
	// every distractor can come from the correct breed's own type.
	for i := 0; i < 30; i++ {
		question, err := gen.Next(context.Background(), domain.DifficultyMedium, domain.FilterBoth, "")
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		correctType := domain.ClassifyBreed(question.CorrectAnswer)
		for _, opt := range question.Options {
			if domain.ClassifyBreed(opt) != correctType {
				t.Fatalf("distractor %q crosses animal type for %q", opt, question.CorrectAnswer)
			}
		}
	}
}

func TestGeneratorUnavailableWhenFilterTooNarrow(t *testing.T) {
	rows := staticCatalog{rows: []domain.BreedImage{
		{Breed: "Siamese", AnimalType: domain.AnimalCat, ImageRef: "pets/siamese_1.jpg"},
		{Breed: "Persian", AnimalType: domain.AnimalCat, ImageRef: "pets/persian_1.jpg"},
	}}
	gen := newTestGenerator(rows)

	_, err := gen.Next(context.Background(), domain.DifficultyMedium, domain.FilterCats, "")
	if err != domain.ErrQuestionUnavailable {
		t.Fatalf("expected question unavailable, got %v", err)
	}
}

func TestGeneratorMockPrediction(t *testing.T) {
	gen := newTestGenerator(testCatalog())

	question, err := gen.Next(context.Background(), domain.DifficultyEasy, domain.FilterDogs, "mobilenet")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if question.AIPrediction != question.CorrectAnswer || question.AIConfidence != 0.95 {
		t.Fatalf("expected mock prediction to mirror the answer, got %+v", question)
	}
}
