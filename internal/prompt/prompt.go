// Package prompt builds the instruction text for the two analysis stages.
// Builders are pure functions of their inputs: no I/O, no error paths beyond
// serialization of already-typed values.
package prompt

import (
	"bytes"
	"fmt"
	"strings"

	"sweettech/internal/util/jsonutil"
)

// RadarAxes is the fixed five-axis sensory radar requested from the model.
var RadarAxes = [5]string{"Sweetness", "Texture", "Aroma", "Aftertaste", "Value"}

// Profile renders the stage-1 instruction: identify the product from free
// text and/or an attached label photo, and emit one JSON object.
func Profile(text, language string) string {
	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE",
		"You are a food-product research analyst. Identify the product described by the user input and any attached label photo, using web search to confirm label facts.")
	writeSection(&buf, "INPUT", userInput(text))
	writeSection(&buf, "OUTPUT", formatList([]string{
		"name, brand, netWeight, price, type, origin, manufacturer, importer: free-text strings identifying the product.",
		"labelIngredients: the ingredient statement verbatim as printed on the label.",
		"ingredients: the individual ingredients as an ordered array of strings.",
		"additives: array of {code, name, function} records, one per E-number or codex additive, with a plain-language explanation of each additive's function.",
		"allergens: array of allergen names.",
		"specs: {moisture, brix, texture, flavorProfile} estimated measurements; use \"N/A\" when a value cannot be estimated.",
	}))
	writeSection(&buf, "CONSTRAINTS", formatList([]string{
		"Respond with exactly one JSON object of the form {\"profile\": {...}}.",
		"Do not wrap the JSON in markdown code fences.",
		"Do not include any prose before or after the JSON object.",
	}))
	writeSection(&buf, "LANGUAGE", languageLine(language))
	return strings.TrimSpace(buf.String()) + "\n"
}

// Insights renders the stage-2 instruction. The already-obtained profile is
// embedded as serialized context so the model benchmarks the right product.
func Insights(text, language string, profile any) string {
	profileJSON, err := jsonutil.MarshalNoEscapeIndent(profile, "", "  ")
	if err != nil {
		profileJSON = []byte("{}")
	}

	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE",
		"You are a food-product research analyst. Produce a competitive benchmark, sensory radar, SWOT, improvement ideas, consumer-review summary, and target persona for the profiled product, grounded in web search.")
	writeSection(&buf, "PRODUCT_PROFILE", string(profileJSON))
	writeSection(&buf, "INPUT", userInput(text))
	writeSection(&buf, "OUTPUT", formatList([]string{
		"competitors: exactly 3 comparable products, preferring competitors sold in the product's own market/region; each {name, price, usp, nutrition: {energy, sugar, fat}, sensory: {attribute: text}}. Price may be per unit or per 100g; nutrition values are free text with units.",
		fmt.Sprintf("radarChart: exactly 5 entries {axis, score} with axes %s and scores 0-10.", strings.Join(RadarAxes[:], ", ")),
		"swot: {strengths, weaknesses, opportunities, threats}, each an array of strings.",
		"improvements: exactly 3 entries {title, description}.",
		"reviews: {summary, keyThemes: array of strings, items: array of {source, rating (1-5), content}} summarizing consumer sentiment.",
		"persona: {targetAudience, expansionPotential: array of strings}.",
	}))
	writeSection(&buf, "CONSTRAINTS", formatList([]string{
		"Respond with exactly one JSON object containing the keys above at the top level.",
		"Do not wrap the JSON in markdown code fences.",
		"Do not include any prose before or after the JSON object.",
	}))
	writeSection(&buf, "LANGUAGE", languageLine(language))
	return strings.TrimSpace(buf.String()) + "\n"
}

func userInput(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "(no text provided; rely on the attached label photo)"
	}
	return text
}

func languageLine(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		language = "English"
	}
	return "Write every output value in " + language + "."
}

func writeSection(buf *bytes.Buffer, name, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(buf, "[%s]\n%s\n\n", name, body)
}

func formatList(items []string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString("- ")
		b.WriteString(it)
		b.WriteString("\n")
	}
	return b.String()
}
