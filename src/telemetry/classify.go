package telemetry

import (
	"strings"

	"github.com/iafilius/ResourceMonitorViz/src/types"
)

// Encoding names the on-disk shape a kind is exported in.
type Encoding string

const (
	EncodingArray   Encoding = "array"   // JSON array of sample objects
	EncodingNested  Encoding = "nested"  // JSON object keyed by namespace kind
	EncodingTabular Encoding = "tabular" // CSV with a header row
)

const (
	ArrayExt   = ".json"
	TabularExt = ".csv"
)

type classificationRule struct {
	ext    string
	tokens []string // any-of substring match on the path; empty matches every path with ext
	kind   types.Kind
}

// classificationRules is evaluated top to bottom, first match wins. The exp2 rule must
// precede the continuous rule because both share the .json extension.
var classificationRules = []classificationRule{
	{ext: ArrayExt, tokens: []string{"exp2", "namespace"}, kind: types.Exp2Namespace},
	{ext: ArrayExt, kind: types.Continuous},
	{ext: TabularExt, tokens: []string{"experiment1_overhead", "exp1"}, kind: types.Exp1Overhead},
	{ext: TabularExt, tokens: []string{"experiment3_cpu", "exp3"}, kind: types.Exp3CPUThrottle},
	{ext: TabularExt, tokens: []string{"experiment4_memory", "exp4"}, kind: types.Exp4MemoryLimit},
	{ext: TabularExt, tokens: []string{"experiment5_io", "exp5"}, kind: types.Exp5IOLimit},
}

// Classify maps an input path to its telemetry kind using extension and filename tokens.
// Tokens are matched as substrings of the path as given, so a name carrying tokens of two
// experiments resolves to whichever rule comes first.
func Classify(path string) (types.Kind, error) {
	for _, r := range classificationRules {
		if !strings.HasSuffix(path, r.ext) {
			continue
		}
		if len(r.tokens) == 0 || containsAny(path, r.tokens) {
			return r.kind, nil
		}
	}
	if strings.HasSuffix(path, TabularExt) {
		return types.KindUnknown, &ClassificationError{Path: path, Reason: "experiment type not recognized from file name"}
	}
	return types.KindUnknown, &ClassificationError{Path: path, Reason: "unsupported format; use .json or .csv"}
}

// EncodingOf returns the encoding a kind is exported in.
func EncodingOf(k types.Kind) Encoding {
	switch k {
	case types.Continuous:
		return EncodingArray
	case types.Exp2Namespace:
		return EncodingNested
	default:
		return EncodingTabular
	}
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
