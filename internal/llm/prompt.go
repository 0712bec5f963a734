package llm

import (
	"strings"
	"time"
)

// BuildSystemPrompt assembles the extraction instruction. Today's date is
// injected so the model can resolve relative dates ("next Tuesday") to
// absolute ones.
func BuildSystemPrompt(now time.Time) string {
	parts := []string{
		"You are an expert data entry AI for a logistics company.",
		"Your job: extract FTL (Full Truck Load) order details from the input.",
		"",
		"CRITICAL RULES:",
		"0. EXHAUSTIVE EXTRACTION (MOST IMPORTANT):",
		"   - The input frequently contains tables or lists with MULTIPLE orders.",
		"   - You MUST extract EVERY SINGLE VALID ORDER found in the input.",
		"   - Do NOT stop after the first one. Do NOT summarize.",
		"   - If a table has 50 rows, output 50 order objects.",
		"1. STRICT SCHEMA: output JSON strictly matching the provided schema.",
		"2. CONFIDENCE SCORES:",
		"   - For EVERY field, provide a 'confidence' score (0.0 to 1.0).",
		"   - 1.0 = explicitly stated in the input.",
		"   - 0.0 = information NOT found (return null for value).",
		"3. MISSING INFO: if a field is not in the input, return value null with",
		"   confidence 0.0. DO NOT hallucinate or make up data.",
		"4. TABLE HANDLING: treat each row as a distinct order unless rows are",
		"   clearly grouped; inherit column headers for rows that omit them.",
		"5. DATES: convert relative dates to absolute dates (YYYY-MM-DD),",
		"   assuming today is " + now.Format("2006-01-02") + ".",
		"6. ENUMS: map fuzzy terms to allowed values (e.g. \"10-wheeler\" -> \"HCV\").",
		"7. EMPTY ROWS: ignore empty rows and page-number/footer rows.",
	}
	return strings.Join(parts, "\n")
}

// TextUserPrompt builds the user turn for a plain-text payload.
func TextUserPrompt(text string) string {
	return "Extract the logistics order details from the following text:\n\n" + text
}

// ImageUserPrompt is the instruction accompanying a vision payload.
const ImageUserPrompt = "Extract the logistics order details from this image."

// CorrectivePrompt builds the self-correction turn appended after a schema
// validation failure, so the model can repair its previous output.
func CorrectivePrompt(validationErr error) string {
	return "Your response failed validation. Error: " + validationErr.Error() +
		". Please fix the format and try again."
}
