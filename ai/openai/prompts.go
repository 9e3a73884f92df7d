package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/scholar/ai"
)

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "name": {
        "type": "string"
      },
      "type": {
        "type": "string"
      },
      "context": {
        "type": "string"
      }
    },
    "required": ["name", "type"],
    "additionalProperties": false
  }
}`

const extractionPromptTemplate = `Extract the key entities from the given text and return them as JSON.

Output ONLY a valid JSON list which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening bracket [ and end
with the closing bracket ]. Your output must exactly follow this schema:

%s

Rules:
- Entity names keep their original capitalization and spelling from the text.
- Type field should be one of: %s.
- Context is a short phrase describing how the entity appears in the text.
- Include only entities that are explicitly mentioned in the text. Do not hallucinate.
- If no entities can be identified, return [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the list.

Example:
Input: "CRISPR gene editing was pioneered by Jennifer Doudna at UC Berkeley."
Output:
[
  {"name":"CRISPR","type":"TECHNOLOGY","context":"gene editing technique"},
  {"name":"Jennifer Doudna","type":"PERSON","context":"pioneer of CRISPR gene editing"},
  {"name":"UC Berkeley","type":"ORGANIZATION","context":"institution where the work was done"}
]

Example:
Input: "The Paris Agreement was adopted in December 2015 to limit global warming."
Output:
[
  {"name":"Paris Agreement","type":"CONCEPT","context":"international climate accord"},
  {"name":"December 2015","type":"DATE","context":"adoption date of the agreement"},
  {"name":"global warming","type":"CONCEPT","context":"phenomenon the agreement targets"}
]`

// buildExtractionPrompt creates the system prompt with entity types embedded.
func buildExtractionPrompt() string {
	return fmt.Sprintf(extractionPromptTemplate,
		extractionResponseSchema,
		strings.Join(ai.EntityTypes, ", "))
}
