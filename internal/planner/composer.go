package planner

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/builder_prompt.md
var builderPrompt string

//go:embed templates/budget_prompt.md
var budgetPrompt string

//go:embed templates/surprise_prompt.md
var surprisePrompt string

//go:embed templates/default_prompt.md
var defaultPrompt string

//go:embed templates/general_rules.md
var generalRules string

//go:embed templates/flight_rules.md
var flightRules string

//go:embed templates/car_rules.md
var carRules string

const notSpecified = "Não especificado"

// Composer turns search criteria into the natural-language instruction sent
// to the generative backend. It performs no I/O; the clock is injected so
// the "today" rule is deterministic under test.
type Composer struct {
	now func() time.Time
}

// NewComposer creates a Composer using the wall clock.
func NewComposer() *Composer {
	return &Composer{now: time.Now}
}

// NewComposerWithClock creates a Composer with a fixed clock.
func NewComposerWithClock(now func() time.Time) *Composer {
	return &Composer{now: now}
}

type promptData struct {
	UserInfo           string
	Transport          string
	DestinationsLine   string
	AccommodationPrefs string
	AttractionsLine    string
	Destination        string
	Budget             string
	StartDate          string
	EndDate            string
	GenerationRules    string
	GeneralRules       string
	FlightRules        string
	CarRules           string
}

// Compose selects exactly one template for the criteria and interpolates the
// user data plus the fixed rule blocks into the final prompt text.
func (c *Composer) Compose(criteria SearchCriteria) (string, error) {
	data, err := c.baseData(criteria)
	if err != nil {
		return "", err
	}

	switch Classify(criteria) {
	case PromptMultiDestination:
		return renderPrompt("builder", builderPrompt, data)
	case PromptBudget:
		if data.Transport == notSpecified {
			data.Transport = "Sugira o mais lógico"
		}
		return renderPrompt("budget", budgetPrompt, data)
	case PromptSurprise:
		return renderPrompt("surprise", surprisePrompt, data)
	default:
		data.GenerationRules = defaultGenerationRules(criteria)
		return renderPrompt("default", defaultPrompt, data)
	}
}

func (c *Composer) baseData(criteria SearchCriteria) (promptData, error) {
	rules, err := renderPrompt("general_rules", generalRules, struct{ Today string }{
		Today: c.now().Format("02/01/2006"),
	})
	if err != nil {
		return promptData{}, err
	}

	data := promptData{
		UserInfo:     userInfoText(criteria),
		Transport:    orDefault(criteria.PreferredTransport, notSpecified),
		Destination:  orDefault(criteria.Destination, notSpecified),
		Budget:       orDefault(criteria.Budget, notSpecified),
		StartDate:    orDefault(criteria.StartDate, notSpecified),
		EndDate:      orDefault(criteria.EndDate, notSpecified),
		GeneralRules: rules,
		FlightRules:  flightRules,
		CarRules:     carRules,
	}

	if len(criteria.DestinationsOrder) > 1 {
		data.DestinationsLine = fmt.Sprintf(
			"- **Destinos e Ordem:** Siga OBRIGATORIAMENTE esta ordem: **%s**.",
			strings.Join(criteria.DestinationsOrder, " -> "))
	} else {
		dest := criteria.MultipleDestinations
		if dest == "" {
			dest = criteria.Destination
		}
		data.DestinationsLine = fmt.Sprintf("- **Destinos Desejados:** %s.", dest)
	}

	data.AccommodationPrefs = "Nenhuma preferência."
	if len(criteria.AccommodationPreferences) > 0 {
		data.AccommodationPrefs = strings.Join(criteria.AccommodationPreferences, ", ")
	}

	if len(criteria.SelectedAttractions) > 0 {
		data.AttractionsLine = fmt.Sprintf(
			"- **Atrações Selecionadas:** Inclua OBRIGATORIAMENTE visitas a: %s.",
			strings.Join(criteria.SelectedAttractions, ", "))
	}

	return data, nil
}

// userInfoText builds the user-information block shared by every template.
func userInfoText(criteria SearchCriteria) string {
	travelerText := fmt.Sprintf("%d adulto(s)", criteria.Travelers.Adults)
	if len(criteria.Travelers.Children) > 0 {
		ages := make([]string, len(criteria.Travelers.Children))
		for i, age := range criteria.Travelers.Children {
			ages[i] = fmt.Sprintf("%d", age)
		}
		travelerText += fmt.Sprintf(", %d menor(es) (idades: %s)",
			len(criteria.Travelers.Children), strings.Join(ages, ", "))
	}

	startLocationText := criteria.StartLocation
	if criteria.StartLocationCoords != nil {
		startLocationText += fmt.Sprintf(" (Coordenadas: %v, %v)",
			criteria.StartLocationCoords.Lat, criteria.StartLocationCoords.Lon)
	}

	userProfileContext := ""
	if criteria.UserProfile != "" {
		userProfileContext = fmt.Sprintf("\n- **PERFIL DO USUÁRIO:** %s", criteria.UserProfile)
	}

	return fmt.Sprintf(`
**Informações do Usuário:**
- **Local de Partida:** %s
- **Viajantes:** %s%s`, startLocationText, travelerText, userProfileContext)
}

// defaultGenerationRules resolves the default template's split: with a free
// transport choice the plan count depends on whether a destination was given;
// with a preferred transport that choice is echoed as a hard constraint.
func defaultGenerationRules(criteria SearchCriteria) string {
	isAnyTransport := criteria.PreferredTransport == "" || criteria.PreferredTransport == "Qualquer"

	if isAnyTransport {
		return `Se o usuário não especificou um destino, gere **4 planos para 4 destinos diferentes**, mesclando os modos de transporte mais lógicos.
Se o usuário especificou um destino, crie **3 planos para esse mesmo destino**, cada um com o modo de transporte mais lógico e econômico: ('Carro próprio'/'Carro Alugado', 'Ônibus', 'Avião').`
	}

	return fmt.Sprintf(`**Transporte Preferencial:** %s. Esta é uma escolha OBRIGATÓRIA.
**Se o destino NÃO for especificado:** Gere **4 SUGESTÕES para 4 DESTINOS DIFERENTES** adequados para o transporte.
**Se o destino FOR especificado:** Gere **3 SUGESTÕES para o destino informado**, variando perfil ou datas.`, criteria.PreferredTransport)
}

func renderPrompt(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", name, err)
	}

	return buf.String(), nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
