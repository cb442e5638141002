package analyzer

import (
	"fmt"

	"github.com/studykit/pdfparse/constants"
	"github.com/studykit/pdfparse/internal/schema"
)

// SelectStrategy maps a fingerprint to an extraction strategy. It is pure:
// the same fingerprint and override always yield the same answer. A known
// override wins unconditionally; an unknown one falls back to text_focus
// with a warning.
func SelectStrategy(fp schema.Fingerprint, override string) (constants.Strategy, []string) {
	if override != "" {
		if constants.KnownStrategy(override) {
			return constants.Strategy(override), nil
		}
		warning := fmt.Sprintf("Unknown strategy override %q, using %s", override, constants.StrategyTextFocus)
		return constants.StrategyTextFocus, []string{warning}
	}

	switch {
	case fp.IsScanned:
		return constants.StrategyOCRHeavy, nil
	case fp.HasEquations:
		return constants.StrategyMathFocus, nil
	case fp.TableDensity > constants.TableFocusDensityMin:
		return constants.StrategyTableFocus, nil
	case fp.ImageDensity > constants.HybridImageDensity && fp.TextDensity < constants.HybridTextDensityMax:
		return constants.StrategyHybrid, nil
	case fp.TextDensity > constants.TextFocusDensityMin:
		return constants.StrategyTextFocus, nil
	default:
		return constants.StrategyHybrid, nil
	}
}
