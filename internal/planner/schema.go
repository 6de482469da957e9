package planner

import (
	"github.com/google/generative-ai-go/genai"
)

// Response schemas handed to the generative backend. They are the output
// shape contract: the backend is asked for JSON conforming to these, and the
// service surfaces (not repairs) anything that fails to parse.

var activitySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"description":   {Type: genai.TypeString},
		"estimatedCost": {Type: genai.TypeNumber},
	},
	Required: []string{"description", "estimatedCost"},
}

var accommodationSuggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":           {Type: genai.TypeString},
		"type":           {Type: genai.TypeString, Enum: []string{"Hotel", "Airbnb", "Hostel"}},
		"city":           {Type: genai.TypeString},
		"location":       {Type: genai.TypeString},
		"totalStayPrice": {Type: genai.TypeNumber},
		"amenities": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"hasBreakfast": {Type: genai.TypeBoolean},
				"hasPool":      {Type: genai.TypeBoolean},
				"hasKitchen":   {Type: genai.TypeBoolean},
			},
			Required: []string{"hasBreakfast", "hasPool", "hasKitchen"},
		},
		"bookingSite": {Type: genai.TypeString},
	},
	Required: []string{"name", "type", "city", "location", "totalStayPrice", "amenities", "bookingSite"},
}

var accommodationOptionsSchema = &genai.Schema{
	Type:        genai.TypeObject,
	Description: "Uma lista única com 7 a 10 sugestões de acomodação variadas.",
	Properties: map[string]*genai.Schema{
		"suggestions": {Type: genai.TypeArray, Items: accommodationSuggestionSchema},
	},
	Required: []string{"suggestions"},
}

var overnightStopSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":                 {Type: genai.TypeString},
		"description":          {Type: genai.TypeString},
		"accommodationOptions": accommodationOptionsSchema,
		"activities":           {Type: genai.TypeArray, Items: activitySchema},
	},
	Required: []string{"name", "description", "accommodationOptions", "activities"},
}

var transportationDetailsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"mode":                   {Type: genai.TypeString},
		"totalCost":              {Type: genai.TypeNumber},
		"details":                {Type: genai.TypeString},
		"suggestedDepartureTime": {Type: genai.TypeString},
		"totalDistanceKm":        {Type: genai.TypeNumber},
		"tollPlazaBreakdown": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {Type: genai.TypeString},
					"cost": {Type: genai.TypeNumber},
				},
				Required: []string{"name", "cost"},
			},
		},
		"breakdown": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"label": {Type: genai.TypeString},
					"value": {Type: genai.TypeString},
				},
				Required: []string{"label", "value"},
			},
		},
		"strategicStops": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":        {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
				},
				Required: []string{"name", "description"},
			},
		},
		"potentialOutboundStops": {Type: genai.TypeArray, Items: overnightStopSchema},
		"potentialReturnStops":   {Type: genai.TypeArray, Items: overnightStopSchema},
		"originIataCode":         {Type: genai.TypeString},
		"destinationIataCode":    {Type: genai.TypeString},
		"priceSource":            {Type: genai.TypeString},
		"bookingUrl":             {Type: genai.TypeString},
	},
	Required: []string{"mode", "totalCost", "details", "suggestedDepartureTime"},
}

var itinerarySchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"day":              {Type: genai.TypeNumber},
			"title":            {Type: genai.TypeString},
			"location":         {Type: genai.TypeString},
			"estimatedDayCost": {Type: genai.TypeNumber},
			"activities":       {Type: genai.TypeArray, Items: activitySchema},
			"foodSuggestions":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"day", "title", "location", "estimatedDayCost", "activities", "foodSuggestions"},
	},
}

var restaurantSuggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":             {Type: genai.TypeString},
		"averageGroupCost": {Type: genai.TypeNumber},
		"cuisine":          {Type: genai.TypeString},
		"description":      {Type: genai.TypeString},
	},
	Required: []string{"name", "averageGroupCost", "cuisine", "description"},
}

var tripPlanSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"destinationName":    {Type: genai.TypeString},
		"destinationCountry": {Type: genai.TypeString},
		"startDate":          {Type: genai.TypeString},
		"endDate":            {Type: genai.TypeString},
		"durationDays":       {Type: genai.TypeNumber},
		"baseCost":           {Type: genai.TypeNumber},
		"travelers": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"adults":   {Type: genai.TypeNumber},
				"children": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeNumber}},
			},
			Required: []string{"adults", "children"},
		},
		"transportationDetails": transportationDetailsSchema,
		"costBreakdown": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"transportation": {Type: genai.TypeNumber},
				"food":           {Type: genai.TypeNumber},
				"activities":     {Type: genai.TypeNumber},
				"shopping":       {Type: genai.TypeNumber},
			},
			Required: []string{"transportation", "food", "activities", "shopping"},
		},
		"accommodationOptions":  accommodationOptionsSchema,
		"restaurantSuggestions": {Type: genai.TypeArray, Items: restaurantSuggestionSchema},
		"itinerary":             itinerarySchema,
		"shoppingTips":          {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"destinationTips":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"startLocation":         {Type: genai.TypeString},
		"startLocationCoords": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"lat": {Type: genai.TypeNumber},
				"lon": {Type: genai.TypeNumber},
			},
		},
	},
	Required: []string{
		"destinationName", "destinationCountry", "startDate", "endDate",
		"durationDays", "baseCost", "travelers", "transportationDetails",
		"costBreakdown", "accommodationOptions", "restaurantSuggestions",
		"itinerary", "shoppingTips", "destinationTips", "startLocation",
	},
}

var tripPlansSchema = &genai.Schema{
	Type:        genai.TypeArray,
	Description: "Uma lista de planos de viagem distintos.",
	Items:       tripPlanSchema,
}

var restaurantsSchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: restaurantSuggestionSchema,
}

var suggestionsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"suggestions"},
}
