package stages

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinassist/assessment/internal/domain/entities"
	"github.com/clinassist/assessment/internal/domain/providers"
)

// DataStage looks up reference data for the reported symptoms in the
// medical knowledge store.
type DataStage struct {
	store providers.KnowledgeStore
}

// NewDataStage creates a knowledge-store backed data stage
func NewDataStage(store providers.KnowledgeStore) *DataStage {
	return &DataStage{store: store}
}

// CollectData gathers diseases matching the symptoms plus their
// deduplicated risk factors and treatment options. An empty knowledge
// base yields empty results, not an error.
func (s *DataStage) CollectData(ctx context.Context, record *entities.AssessmentRecord) (*entities.MedicalData, error) {
	symptoms := record.SymptomNames()
	log.Info().Strs("symptoms", symptoms).Msg("Fetching medical data")

	diseases, err := s.store.LookupBySymptoms(ctx, symptoms)
	if err != nil {
		return nil, err
	}

	data := &entities.MedicalData{
		Diseases:      diseases,
		SymptomsFound: symptoms,
		RiskFactors:   []string{},
		Treatments:    []string{},
	}

	seen := map[string]bool{}
	for _, disease := range diseases {
		for _, rf := range disease.RiskFactors {
			if !seen[rf] {
				seen[rf] = true
				data.RiskFactors = append(data.RiskFactors, rf)
			}
		}
		data.Treatments = append(data.Treatments, disease.Treatments...)
	}

	log.Info().Int("diseases", len(diseases)).Msg("Found related diseases")
	return data, nil
}
