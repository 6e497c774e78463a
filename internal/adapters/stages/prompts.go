package stages

import (
	"fmt"
	"strings"

	"github.com/clinassist/assessment/internal/domain/entities"
)

const diagnosisSystemPrompt = `You are an expert medical diagnostic assistant.
Analyze patient symptoms against known disease patterns and generate
differential diagnoses. Never exceed 95% confidence. Provide 2-5 most
likely diagnoses sorted by confidence, each with a confidence percentage,
key indicators and supporting evidence. Be honest about uncertainty.`

const reasoningSystemPrompt = `You are a Medical Reasoning Expert. Validate
proposed diagnoses against the reported symptoms: check symptom-pattern
consistency, look for contradictions, consider alternatives, and flag any
urgent symptoms. Provide clear, logical reasoning for each assessment.`

const treatmentSystemPrompt = `You are a Treatment Recommendation Specialist.
Recommend evidence-based treatments: medications with dosage, diagnostic
tests, lifestyle modifications and specialist consultations. Always check
patient allergies, drug interactions and age-appropriate dosing, and flag
safety concerns.`

const evaluationSystemPrompt = `You are a Quality and Safety Evaluator for
medical assessments. Judge whether diagnoses are supported by symptoms,
treatments fit the diagnoses, and safety considerations are addressed.
Always provide an overall quality score between 0.0 and 1.0.`

func buildDiagnosisPrompt(record *entities.AssessmentRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Patient Information:\n- Age: %d\n- Gender: %s\n- Medical History: %s\n\n",
		record.Patient.Age, record.Patient.Gender, joinOrNone(record.Patient.MedicalHistory))

	b.WriteString("Symptoms:\n")
	for _, s := range record.Symptoms {
		fmt.Fprintf(&b, "- %s (severity: %s)\n", s.Name, s.Severity)
	}

	b.WriteString("\nPossible Diseases from Knowledge Base:\n")
	if record.MedicalData != nil {
		for _, d := range record.MedicalData.Diseases {
			fmt.Fprintf(&b, "- %s\n", d.Name)
		}
	}

	b.WriteString(`
Based on this information, provide differential diagnoses.
For each diagnosis, provide:
1. Disease name
2. Confidence score as a percentage (max 95%)
3. Key indicators (3-5 symptoms that support this diagnosis)
4. Supporting evidence from the medical data
`)
	return b.String()
}

func buildReasoningPrompt(record *entities.AssessmentRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Validate these diagnoses:\n\nSymptoms: %s\n\nProposed Diagnoses:\n",
		strings.Join(record.SymptomNames(), ", "))
	for _, d := range record.TopDiagnoses(3) {
		fmt.Fprintf(&b, "- %s (confidence: %.1f%%)\n", d.Disease, d.ConfidenceScore*100)
	}

	b.WriteString(`
For each diagnosis, provide:
1. Is it valid for these symptoms?
2. How well do the symptoms match?
3. Are there any contradictions?
4. What tests would confirm this?
`)
	return b.String()
}

func buildTreatmentPrompt(record *entities.AssessmentRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Recommend treatments for:

Patient Information:
- Age: %d
- Allergies: %s
- Current medications: %s
- Medical history: %s

Diagnoses:
`,
		record.Patient.Age,
		joinOrNone(record.Patient.Allergies),
		joinOrNone(record.Patient.Medications),
		joinOrNone(record.Patient.MedicalHistory))

	for _, d := range record.TopDiagnoses(2) {
		fmt.Fprintf(&b, "- %s\n", d.Disease)
	}

	b.WriteString(`
Provide:
1. Medication recommendations with dosage
2. Diagnostic tests to confirm diagnosis
3. Lifestyle modifications
4. Any precautions or warnings
5. When to seek emergency care
`)
	return b.String()
}

func buildEvaluationPrompt(record *entities.AssessmentRecord) string {
	topDiagnosis := "None"
	confidence := 0.0
	if len(record.Diagnoses) > 0 {
		topDiagnosis = record.Diagnoses[0].Disease
		confidence = record.Diagnoses[0].ConfidenceScore
	}

	return fmt.Sprintf(`Evaluate this medical assessment:

Number of symptoms: %d
Number of diagnoses: %d
Number of treatments: %d

Top diagnosis: %s
Confidence: %.1f%%

Provide:
- Overall quality score (0.0-1.0)
- Strengths of the assessment
- Areas for improvement
- Any concerns or red flags
- Final recommendation
`,
		len(record.Symptoms), len(record.Diagnoses), len(record.Treatments),
		topDiagnosis, confidence*100)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
