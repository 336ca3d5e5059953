package services

import (
	"testing"

	"github.com/falube/certificaciones/internal/models"
)

func TestTotalProyectoYContribucion(t *testing.T) {
	pliego := []models.PliegoItem{
		{ID: 1, CostoParcial: dec("600")},
		{ID: 2, CostoParcial: dec("400")},
	}
	total := TotalProyecto(pliego)
	if total != 1000 {
		t.Fatalf("total = %v, expected 1000", total)
	}

	costos := CostoPorItem(pliego)
	// 50% del ítem que pesa 60% de la obra son 30 puntos.
	got := ContribucionPonderada(50, costos[1], total)
	if !casiIgual(got, 30) {
		t.Fatalf("contribución = %v, expected 30", got)
	}
}

func TestContribucionCompletaSuma100(t *testing.T) {
	pliego := []models.PliegoItem{
		{ID: 1, CostoParcial: dec("123.45")},
		{ID: 2, CostoParcial: dec("678.90")},
		{ID: 3, CostoParcial: dec("0.65")},
	}
	total := TotalProyecto(pliego)
	costos := CostoPorItem(pliego)
	var suma float64
	for id := range costos {
		suma += ContribucionPonderada(100, costos[id], total)
	}
	if !casiIgual(suma, 100) {
		t.Fatalf("suma con todo al 100%% = %v, expected 100", suma)
	}
}

func TestContribucionTotalCero(t *testing.T) {
	if got := ContribucionPonderada(50, 0, 0); got != 0 {
		t.Fatalf("con total cero expected 0, got %v", got)
	}
}

func TestRound2(t *testing.T) {
	if got := round2(33.335); !casiIgual(got, 33.34) {
		t.Fatalf("round2(33.335) = %v", got)
	}
	if got := round2(-1.005); !casiIgual(got, -1.0) {
		t.Fatalf("round2(-1.005) = %v", got)
	}
}
