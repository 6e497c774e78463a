package stages

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/clinassist/assessment/internal/domain/entities"
)

const defaultDiagnosisConfidence = 0.65

// maxDiagnosisConfidence caps parsed confidences; the model is told the
// same limit but does not always honor it.
const maxDiagnosisConfidence = 0.95

var percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

var indicatorKeywords = []string{
	"fever", "cough", "headache", "body ache", "nausea",
	"vomiting", "rash", "shortness", "sore throat",
}

// parseDiagnoses matches known disease names in the model output and
// extracts per-disease confidence percentages. Returns at most five
// diagnoses, highest confidence first.
func parseDiagnoses(response string, diseaseNames []string) []entities.Diagnosis {
	diagnoses := []entities.Diagnosis{}
	lowerResponse := strings.ToLower(response)
	lines := strings.Split(response, "\n")

	for _, disease := range diseaseNames {
		lowerDisease := strings.ToLower(disease)
		if !strings.Contains(lowerResponse, lowerDisease) {
			continue
		}

		confidence := defaultDiagnosisConfidence
		for _, line := range lines {
			if !strings.Contains(strings.ToLower(line), lowerDisease) {
				continue
			}
			if match := percentPattern.FindStringSubmatch(line); match != nil {
				if value, err := strconv.ParseFloat(match[1], 64); err == nil {
					confidence = value / 100.0
					if confidence > maxDiagnosisConfidence {
						confidence = maxDiagnosisConfidence
					}
				}
			}
		}

		diagnoses = append(diagnoses, entities.Diagnosis{
			Disease:            disease,
			ConfidenceScore:    confidence,
			KeyIndicators:      extractIndicators(lines, lowerDisease),
			SupportingEvidence: []string{},
		})
	}

	sort.SliceStable(diagnoses, func(i, j int) bool {
		return diagnoses[i].ConfidenceScore > diagnoses[j].ConfidenceScore
	})

	if len(diagnoses) > 5 {
		diagnoses = diagnoses[:5]
	}
	return diagnoses
}

// extractIndicators pulls symptom-bearing lines near a disease mention
func extractIndicators(lines []string, lowerDisease string) []string {
	indicators := []string{}
	seen := map[string]bool{}

	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), lowerDisease) {
			continue
		}
		lo := i - 3
		if lo < 0 {
			lo = 0
		}
		hi := i + 4
		if hi > len(lines) {
			hi = len(lines)
		}
		for _, nearby := range lines[lo:hi] {
			lower := strings.ToLower(nearby)
			for _, keyword := range indicatorKeywords {
				if strings.Contains(lower, keyword) {
					indicator := strings.TrimLeft(strings.TrimSpace(nearby), "-•* ")
					if len(indicator) > 5 && !seen[indicator] {
						seen[indicator] = true
						indicators = append(indicators, indicator)
					}
					break
				}
			}
		}
	}

	if len(indicators) > 5 {
		indicators = indicators[:5]
	}
	return indicators
}

// parseTreatments classifies each substantial output line by keyword
// into a treatment type. Returns at most ten recommendations.
func parseTreatments(response string) []entities.Treatment {
	treatments := []entities.Treatment{}

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 10 {
			continue
		}

		lower := strings.ToLower(line)
		treatmentType := entities.TreatmentMedication
		switch {
		case strings.Contains(lower, "test") || strings.Contains(lower, "diagnostic"):
			treatmentType = entities.TreatmentTest
		case strings.Contains(lower, "lifestyle") || strings.Contains(lower, "modify"):
			treatmentType = entities.TreatmentLifestyle
		case strings.Contains(lower, "consult") || strings.Contains(lower, "specialist"):
			treatmentType = entities.TreatmentConsultation
		}

		treatments = append(treatments, entities.Treatment{
			Type:           treatmentType,
			Recommendation: strings.TrimLeft(line, "-•* "),
			Justification:  "As recommended by medical guidelines",
			Confidence:     0.75,
		})

		if len(treatments) == 10 {
			break
		}
	}
	return treatments
}

var scorePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|out of 10|/10)`)

// extractQualityScore reads the first "N%" or "N/10" style score from
// the output; absent a score it defaults to 0.75.
func extractQualityScore(response string) float64 {
	match := scorePattern.FindStringSubmatch(response)
	if match == nil {
		return 0.75
	}
	score, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0.75
	}

	if strings.Contains(response, "out of 10") || strings.Contains(response, "/10") {
		score /= 10.0
	} else {
		score /= 100.0
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// extractKeywordLines collects up to three substantial lines mentioning
// the keyword, used for strengths and concerns extraction.
func extractKeywordLines(response, keyword string) []string {
	out := []string{}
	for _, line := range strings.Split(response, "\n") {
		if strings.Contains(strings.ToLower(line), keyword) && len(line) > 10 {
			out = append(out, strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-•* ")))
			if len(out) == 3 {
				break
			}
		}
	}
	return out
}

var urgentSymptomKeywords = []string{
	"severe chest pain",
	"shortness of breath",
	"severe headache",
	"unconsciousness",
	"severe bleeding",
}

// DetectUrgentSymptoms returns the reported symptoms that match the
// urgent keyword list, used to decide whether a case needs flagging.
func DetectUrgentSymptoms(symptoms []entities.Symptom) []string {
	urgent := []string{}
	for _, s := range symptoms {
		lower := strings.ToLower(s.Name)
		for _, keyword := range urgentSymptomKeywords {
			if strings.Contains(lower, keyword) {
				urgent = append(urgent, s.Name)
				break
			}
		}
	}
	return urgent
}
