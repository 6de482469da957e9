package planner

import (
	"strings"
	"testing"
	"time"
)

func testComposer() *Composer {
	fixed := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	return NewComposerWithClock(func() time.Time { return fixed })
}

func baseCriteria() SearchCriteria {
	return SearchCriteria{
		StartLocation: "São Paulo, SP",
		Travelers:     Travelers{Adults: 2},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		criteria SearchCriteria
		want     PromptKind
	}{
		{"Default", SearchCriteria{Destination: "Rio de Janeiro"}, PromptDefault},
		{"Budget", SearchCriteria{Budget: "R$5000"}, PromptBudget},
		{"Surprise", SearchCriteria{Destination: SurpriseMe}, PromptSurprise},
		{"MultiDestination", SearchCriteria{MultipleDestinations: "Gramado, Canela"}, PromptMultiDestination},
		{"MultiDestinationBeatsBudget", SearchCriteria{MultipleDestinations: "Gramado", Budget: "R$5000"}, PromptMultiDestination},
		{"BudgetBeatsSurprise", SearchCriteria{Budget: "R$5000", Destination: SurpriseMe}, PromptBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.criteria); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComposeBuilder(t *testing.T) {
	c := testComposer()

	t.Run("OrderedDestinations", func(t *testing.T) {
		criteria := baseCriteria()
		criteria.MultipleDestinations = "Gramado, Canela, Bento Gonçalves"
		criteria.DestinationsOrder = []string{"Gramado", "Canela", "Bento Gonçalves"}
		criteria.PreferredTransport = "Carro próprio"

		prompt, err := c.Compose(criteria)
		if err != nil {
			t.Fatalf("Compose failed: %v", err)
		}
		if !strings.Contains(prompt, "EXATAMENTE 3 planos de viagem distintos") {
			t.Error("Expected builder prompt to request exactly 3 plans")
		}
		if !strings.Contains(prompt, "Gramado -> Canela -> Bento Gonçalves") {
			t.Error("Expected destinations in the exact given order")
		}
	})

	t.Run("RawCommaTextWithoutOrder", func(t *testing.T) {
		criteria := baseCriteria()
		criteria.MultipleDestinations = "Gramado, Canela"
		criteria.PreferredTransport = "Ônibus"

		prompt, err := c.Compose(criteria)
		if err != nil {
			t.Fatalf("Compose failed: %v", err)
		}
		if !strings.Contains(prompt, "**Destinos Desejados:** Gramado, Canela.") {
			t.Error("Expected raw comma-separated destinations line")
		}
	})

	t.Run("SelectedAttractionsAreMandatory", func(t *testing.T) {
		criteria := baseCriteria()
		criteria.MultipleDestinations = "Gramado"
		criteria.PreferredTransport = "Carro próprio"
		criteria.SelectedAttractions = []string{"Lago Negro (Gramado)"}

		prompt, err := c.Compose(criteria)
		if err != nil {
			t.Fatalf("Compose failed: %v", err)
		}
		if !strings.Contains(prompt, "Inclua OBRIGATORIAMENTE visitas a: Lago Negro (Gramado)") {
			t.Error("Expected mandatory attractions line")
		}
	})
}

func TestComposeBudget(t *testing.T) {
	c := testComposer()
	criteria := baseCriteria()
	criteria.Budget = "R$5000"
	criteria.Destination = "Paris" // must be ignored by instruction

	prompt, err := c.Compose(criteria)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !strings.Contains(prompt, "EXATAMENTE 4 planos de viagem para 4 DESTINOS DIFERENTES") {
		t.Error("Expected budget prompt to request 4 plans for 4 destinations")
	}
	if !strings.Contains(prompt, "Ignore qualquer destino que o usuário tenha inserido") {
		t.Error("Expected instruction to disregard user destination")
	}
	if !strings.Contains(prompt, "R$5000") {
		t.Error("Expected budget value in prompt")
	}
	if strings.Contains(prompt, "Paris") {
		t.Error("Budget prompt must not reference the typed destination")
	}
}

func TestComposeSurprise(t *testing.T) {
	c := testComposer()
	criteria := baseCriteria()
	criteria.Destination = SurpriseMe

	prompt, err := c.Compose(criteria)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !strings.Contains(prompt, "EXATAMENTE 3 planos de viagem distintos") {
		t.Error("Expected surprise prompt to request exactly 3 plans")
	}
	car := strings.Index(prompt, "'Carro próprio'")
	bus := strings.Index(prompt, "'Ônibus'")
	flight := strings.Index(prompt, "'Avião'")
	if car == -1 || bus == -1 || flight == -1 {
		t.Fatal("Expected all three fixed transport modes in prompt")
	}
	if !(car < bus && bus < flight) {
		t.Error("Expected transport modes in car, bus, flight order")
	}
}

func TestComposeDefault(t *testing.T) {
	c := testComposer()

	t.Run("AnyTransport", func(t *testing.T) {
		criteria := baseCriteria()
		criteria.Destination = "Rio de Janeiro"

		prompt, err := c.Compose(criteria)
		if err != nil {
			t.Fatalf("Compose failed: %v", err)
		}
		if !strings.Contains(prompt, "4 planos para 4 destinos diferentes") {
			t.Error("Expected the no-destination branch of the split")
		}
		if !strings.Contains(prompt, "3 planos para esse mesmo destino") {
			t.Error("Expected the with-destination branch of the split")
		}
	})

	t.Run("PreferredTransportIsHardConstraint", func(t *testing.T) {
		criteria := baseCriteria()
		criteria.PreferredTransport = "Avião"

		prompt, err := c.Compose(criteria)
		if err != nil {
			t.Fatalf("Compose failed: %v", err)
		}
		if !strings.Contains(prompt, "**Transporte Preferencial:** Avião. Esta é uma escolha OBRIGATÓRIA.") {
			t.Error("Expected preferred transport echoed as hard constraint")
		}
	})
}

func TestComposeSharedRules(t *testing.T) {
	c := testComposer()
	criteria := baseCriteria()
	criteria.Destination = "Curitiba"
	criteria.UserProfile = "As preferências anteriores do usuário são: praia; montanha."
	criteria.StartLocationCoords = &Coordinates{Lat: -23.55, Lon: -46.63}

	prompt, err := c.Compose(criteria)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	for _, want := range []string{
		"A data de hoje é 10/03/2026",
		"pelo menos 15 dias",
		"NÃO INCLUA HOSPEDAGEM AQUI",
		"Códigos IATA",
		"tollPlazaBreakdown",
		"Até 500 km: 3-4 dias",
		"**PERFIL DO USUÁRIO:** As preferências anteriores do usuário são: praia; montanha.",
		"(Coordenadas: -23.55, -46.63)",
		"2 adulto(s)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}

	// Rule blocks keep their fixed order: general, flight, car.
	general := strings.Index(prompt, "REGRAS DE VERIFICAÇÃO DE DADOS")
	flight := strings.Index(prompt, "REGRAS PARA VIAGENS DE AVIÃO")
	car := strings.Index(prompt, "REGRAS PARA VIAGENS DE CARRO")
	if !(general < flight && flight < car) {
		t.Error("Expected rule blocks in general, flight, car order")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		criteria SearchCriteria
		wantErr  error
	}{
		{"Valid", SearchCriteria{Travelers: Travelers{Adults: 2}}, nil},
		{"NoTravelers", SearchCriteria{}, ErrNoTravelers},
		{"ChildAgeTooHigh", SearchCriteria{Travelers: Travelers{Adults: 1, Children: []int{18}}}, ErrInvalidChildAge},
		{"EndBeforeStart", SearchCriteria{Travelers: Travelers{Adults: 1}, StartDate: "2026-05-10", EndDate: "2026-05-01"}, ErrInvalidDateRange},
		{"BuilderWithoutTransport", SearchCriteria{Travelers: Travelers{Adults: 1}, MultipleDestinations: "Gramado"}, ErrNoTransport},
		{"ChildrenOnlyPartyIsValid", SearchCriteria{Travelers: Travelers{Adults: 0, Children: []int{10}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.criteria.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
