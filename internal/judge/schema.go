package judge

import "github.com/invopop/jsonschema"

// verdictShape mirrors the JSON object the judge must return. It exists only
// to derive the response schema; responses are parsed loosely so guardrails
// can coerce out-of-range values instead of dropping the whole payload.
type verdictShape struct {
	Overturn             bool    `json:"overturn" jsonschema:"required"`
	FinalCorrect         bool    `json:"final_correct" jsonschema:"required"`
	ReasonCode           string  `json:"reason_code" jsonschema:"required,enum=already_correct,enum=empty_response,enum=exact_match,enum=insufficient_specificity,enum=last_name_match,enum=minor_typo_match,enum=no_match,enum=semantic_equivalence,enum=strong_fuzzy_match"`
	MatchType            string  `json:"match_type" jsonschema:"required,enum=alias,enum=exact,enum=last_name,enum=minor_typo,enum=no_match"`
	SameEntityLikelihood float64 `json:"same_entity_likelihood" jsonschema:"required"`
	Reason               string  `json:"reason" jsonschema:"required"`
	Confidence           float64 `json:"confidence" jsonschema:"required"`
}

// VerdictSchema is the strict response schema sent with every judge request:
// all seven fields required, additional properties disallowed.
func VerdictSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	return reflector.Reflect(&verdictShape{})
}
