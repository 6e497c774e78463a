package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/clinassist/assessment/internal/adapters/knowledge"
	"github.com/clinassist/assessment/internal/adapters/stages"
	"github.com/clinassist/assessment/internal/application/services"
	"github.com/clinassist/assessment/internal/domain/entities"
	"github.com/clinassist/assessment/internal/domain/providers"
	"github.com/clinassist/assessment/internal/infrastructure/clients/gemini"
	"github.com/clinassist/assessment/pkg/config"
)

// caseFile is the input format: a patient plus their presenting symptoms.
type caseFile struct {
	Patient  entities.Patient   `json:"patient"`
	Symptoms []entities.Symptom `json:"symptoms"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <case-file.json>", os.Args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read case file: %v", err)
	}

	var input caseFile
	if err := json.Unmarshal(data, &input); err != nil {
		log.Fatalf("Failed to parse case file: %v", err)
	}

	store, err := knowledge.NewJSONStore(cfg.Knowledge.BaseFile)
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}

	assessmentStages := providers.Stages{
		Data: stages.NewDataStage(store),
	}
	if cfg.Gemini.APIKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set; inference stages disabled")
	} else {
		client, err := gemini.NewClient(&cfg.Gemini)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		assessmentStages.Diagnosis = stages.NewDiagnosisStage(client)
		assessmentStages.Reasoning = stages.NewReasoningStage(client)
		assessmentStages.Treatment = stages.NewTreatmentStage(client)
		assessmentStages.Evaluation = stages.NewEvaluationStage(client)
	}

	orchestrator := services.NewOrchestratorService(assessmentStages)

	record, err := orchestrator.Initialize(input.Patient, input.Symptoms)
	if err != nil {
		log.Fatalf("Invalid case file: %v", err)
	}

	record = orchestrator.Run(context.Background(), record)
	printSummary(record)

	if record.Status == entities.AssessmentStatusError {
		os.Exit(1)
	}
}

func printSummary(record *entities.AssessmentRecord) {
	summary := record.FinalSummary

	fmt.Println("=== Clinical Assessment Summary ===")
	for key, value := range entities.FormatSummary(summary) {
		fmt.Printf("%-18s %v\n", key+":", value)
	}
	fmt.Println()

	if len(summary.ProbableDiagnoses) > 0 {
		fmt.Println("Probable diagnoses:")
		for _, d := range summary.ProbableDiagnoses {
			fmt.Printf("  - %s\n", entities.FormatDiagnosis(d))
		}
		fmt.Println()
	}

	if len(summary.Treatments) > 0 {
		fmt.Println("Recommended treatments:")
		for _, t := range summary.Treatments {
			fmt.Printf("  - %s\n", entities.FormatTreatment(t))
		}
		fmt.Println()
	}

	if len(summary.DiagnosticTests) > 0 {
		fmt.Println("Diagnostic tests:")
		for _, test := range summary.DiagnosticTests {
			fmt.Printf("  - %s\n", test)
		}
		fmt.Println()
	}

	if len(summary.NextSteps) > 0 {
		fmt.Println("Next steps:")
		for _, step := range summary.NextSteps {
			fmt.Printf("  - %s\n", step)
		}
		fmt.Println()
	}

	if len(summary.SafetyWarnings) > 0 {
		fmt.Println("Safety warnings:")
		for _, warning := range summary.SafetyWarnings {
			fmt.Printf("  ! %s\n", warning)
		}
		fmt.Println()
	}

	if summary.Error != "" {
		fmt.Printf("Assessment error: %s\n", summary.Error)
	}
}
