package models

import "testing"

func TestAnticipoPorcentaje(t *testing.T) {
	cases := []struct {
		reparticion string
		want        float64
	}{
		{ReparticionMunicipalidad, 40},
		{ReparticionArquitectura, 20},
		{"", 0},
		{"otra_reparticion", 0},
	}
	for _, c := range cases {
		o := Obra{Reparticion: c.reparticion}
		if got := o.AnticipoPorcentaje(); got != c.want {
			t.Errorf("AnticipoPorcentaje(%q) = %v, expected %v", c.reparticion, got, c.want)
		}
	}
}

func TestReparticionValida(t *testing.T) {
	if !ReparticionValida(ReparticionMunicipalidad) || !ReparticionValida(ReparticionArquitectura) {
		t.Fatal("reparticiones conocidas deben ser válidas")
	}
	if ReparticionValida("") || ReparticionValida("ministerio") {
		t.Fatal("valores desconocidos no son reparticiones válidas")
	}
}
