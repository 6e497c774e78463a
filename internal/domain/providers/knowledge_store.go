package providers

import (
	"context"

	"github.com/clinassist/assessment/internal/domain/entities"
)

// KnowledgeStore defines read access to the medical knowledge base.
// Implementations return empty results, not errors, when nothing matches.
type KnowledgeStore interface {
	// LookupBySymptoms returns diseases associated with any of the symptoms
	LookupBySymptoms(ctx context.Context, symptoms []string) ([]entities.Disease, error)

	// LookupByDisease returns the entry for a disease by name
	LookupByDisease(ctx context.Context, name string) (*entities.Disease, error)

	// CheckInteraction reports a known interaction between two drugs,
	// matching the pair in either order
	CheckInteraction(ctx context.Context, drugA, drugB string) (*entities.DrugInteraction, error)

	// CheckAllergy returns drugs to avoid for a known allergy
	CheckAllergy(ctx context.Context, allergy string) (*entities.AllergyWarning, error)

	// AllDiseases returns every disease in the knowledge base
	AllDiseases(ctx context.Context) ([]entities.Disease, error)

	// AllSymptoms returns the distinct symptoms known to the knowledge base
	AllSymptoms(ctx context.Context) ([]string, error)
}
