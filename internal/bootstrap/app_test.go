package bootstrap

import (
	"testing"

	"algomate-backend/internal/shared/config"
)

func TestBuildServicesRequiresAIKeyInProduction(t *testing.T) {
	app := &App{Config: config.Config{Env: "production"}}
	if err := buildServices(app); err == nil {
		t.Fatal("production without GEMINI_API_KEY must refuse to start")
	}
}

func TestBuildServicesDevDegradesToHeuristics(t *testing.T) {
	app := &App{Config: config.Config{Env: "dev"}}
	if err := buildServices(app); err != nil {
		t.Fatalf("buildServices: %v", err)
	}
	if app.AnalysesRepo == nil || app.AnalysesService == nil || app.AnalysisHandler == nil {
		t.Fatal("dev wiring must fall back to in-memory dependencies")
	}
}
