package constants

// Strategy is the canonical name of an extraction pipeline.
type Strategy string

// Stable values (these exact strings appear in results and cache keys).
const (
	StrategyTextFocus  Strategy = "text_focus"  // single text pass, fastest
	StrategyHybrid     Strategy = "hybrid"      // text pass + selective OCR augmentation
	StrategyTableFocus Strategy = "table_focus" // whole-document table pass first
	StrategyMathFocus  Strategy = "math_focus"  // parallel equation + text passes
	StrategyOCRHeavy   Strategy = "ocr_heavy"   // render every page, OCR in batches
)

// Strategies lists every runnable strategy.
var Strategies = []Strategy{
	StrategyTextFocus,
	StrategyHybrid,
	StrategyTableFocus,
	StrategyMathFocus,
	StrategyOCRHeavy,
}

// KnownStrategy reports whether name is one of the five runnable strategies.
func KnownStrategy(name string) bool {
	for _, s := range Strategies {
		if string(s) == name {
			return true
		}
	}
	return false
}
