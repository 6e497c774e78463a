package knowledge

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/clinassist/assessment/internal/domain/entities"
)

// JSONStore is a read-only knowledge store backed by a JSON file loaded
// at startup. A missing file is not an error; lookups simply return
// empty results.
type JSONStore struct {
	base entities.KnowledgeBase
}

// NewJSONStore loads the knowledge base from path. A missing file
// yields an empty store; a malformed file is an error.
func NewJSONStore(path string) (*JSONStore, error) {
	store := &JSONStore{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("Knowledge base file not found, starting empty")
			return store, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &store.base); err != nil {
		return nil, err
	}

	log.Info().
		Int("diseases", len(store.base.Diseases)).
		Int("interactions", len(store.base.Interactions)).
		Msg("Loaded knowledge base")
	return store, nil
}

// NewStoreFromBase wraps an in-memory knowledge base, used by tests and
// seeded deployments.
func NewStoreFromBase(base entities.KnowledgeBase) *JSONStore {
	return &JSONStore{base: base}
}

// LookupBySymptoms returns diseases whose symptom list contains any of
// the given symptoms, case-insensitively, each disease at most once.
func (s *JSONStore) LookupBySymptoms(_ context.Context, symptoms []string) ([]entities.Disease, error) {
	matched := []entities.Disease{}
	for _, disease := range s.base.Diseases {
		if diseaseMatches(disease, symptoms) {
			matched = append(matched, disease)
		}
	}
	return matched, nil
}

func diseaseMatches(disease entities.Disease, symptoms []string) bool {
	for _, ds := range disease.Symptoms {
		for _, symptom := range symptoms {
			if strings.EqualFold(ds, symptom) {
				return true
			}
		}
	}
	return false
}

// LookupByDisease returns the entry for a disease by name, or nil
func (s *JSONStore) LookupByDisease(_ context.Context, name string) (*entities.Disease, error) {
	for i := range s.base.Diseases {
		if strings.EqualFold(s.base.Diseases[i].Name, name) {
			disease := s.base.Diseases[i]
			return &disease, nil
		}
	}
	return nil, nil
}

// CheckInteraction matches a drug pair in either order, or returns nil
func (s *JSONStore) CheckInteraction(_ context.Context, drugA, drugB string) (*entities.DrugInteraction, error) {
	for i := range s.base.Interactions {
		interaction := s.base.Interactions[i]
		forward := strings.EqualFold(interaction.DrugA, drugA) && strings.EqualFold(interaction.DrugB, drugB)
		reverse := strings.EqualFold(interaction.DrugA, drugB) && strings.EqualFold(interaction.DrugB, drugA)
		if forward || reverse {
			return &interaction, nil
		}
	}
	return nil, nil
}

// CheckAllergy returns the warning entry for an allergy, or nil
func (s *JSONStore) CheckAllergy(_ context.Context, allergy string) (*entities.AllergyWarning, error) {
	for i := range s.base.Allergies {
		if strings.EqualFold(s.base.Allergies[i].Allergy, allergy) {
			warning := s.base.Allergies[i]
			return &warning, nil
		}
	}
	return nil, nil
}

// AllDiseases returns every disease in the knowledge base
func (s *JSONStore) AllDiseases(_ context.Context) ([]entities.Disease, error) {
	return append([]entities.Disease(nil), s.base.Diseases...), nil
}

// AllSymptoms returns the distinct symptoms across all diseases
func (s *JSONStore) AllSymptoms(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	symptoms := []string{}
	for _, disease := range s.base.Diseases {
		for _, symptom := range disease.Symptoms {
			key := strings.ToLower(symptom)
			if !seen[key] {
				seen[key] = true
				symptoms = append(symptoms, symptom)
			}
		}
	}
	return symptoms, nil
}
