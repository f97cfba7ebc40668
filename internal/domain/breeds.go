package domain

import "strings"

// catBreeds is the fixed whitelist used to classify breeds when the
// catalog rows do not carry an animal type.
var catBreeds = map[string]struct{}{
	"siamese":           {},
	"maine coon":        {},
	"persian":           {},
	"bengal":            {},
	"british shorthair": {},
	"russian blue":      {},
	"abyssinian":        {},
	"ragdoll":           {},
	"sphynx":            {},
	"birman":            {},
	"bombay":            {},
	"egyptian mau":      {},
}

// ClassifyBreed returns cat for whitelisted cat breeds and dog otherwise.
func ClassifyBreed(breed string) AnimalType {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(breed), "_", " "))
	if _, ok := catBreeds[key]; ok {
		return AnimalCat
	}
	return AnimalDog
}

// Matches reports whether an animal type passes the filter.
func (f AnimalFilter) Matches(t AnimalType) bool {
	switch f {
	case FilterCats:
		return t == AnimalCat
	case FilterDogs:
		return t == AnimalDog
	default:
		return true
	}
}
