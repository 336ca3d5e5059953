package services

import (
	"math"

	"github.com/falube/certificaciones/internal/models"
)

// Ponderación por costo: el único criterio de agregación del sistema. Un
// porcentaje p sobre un ítem vale (p/100) × (costoParcial/costoTotal) × 100
// puntos del valor total de la obra. Planificado, certificado y avance físico
// usan exactamente esta fórmula para que las tres curvas sean comparables.

// TotalProyecto suma los costos parciales del pliego.
func TotalProyecto(items []models.PliegoItem) float64 {
	var total float64
	for _, it := range items {
		total += it.CostoParcial.InexactFloat64()
	}
	return total
}

// CostoPorItem indexa costoParcial por id de ítem de pliego.
func CostoPorItem(items []models.PliegoItem) map[uint]float64 {
	m := make(map[uint]float64, len(items))
	for _, it := range items {
		m[it.ID] = it.CostoParcial.InexactFloat64()
	}
	return m
}

// ContribucionPonderada traduce un porcentaje de un ítem a puntos del total de
// la obra. Con total cero devuelve cero: obra vacía es un caso degenerado
// válido, no un error.
func ContribucionPonderada(porcentaje, costo, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (porcentaje / 100) * (costo / total) * 100
}

// round2 redondea a 2 decimales. La curva redondea en cada emisión, no solo al
// final, para reproducir la serie de referencia.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
