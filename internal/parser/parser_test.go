package parser

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/studykit/pdfparse/internal/cache"
	"github.com/studykit/pdfparse/internal/common"
)

func TestOptionsNormalizedStableCacheKey(t *testing.T) {
	a := Options{Strategy: "Table_Focus", Language: "EN", EnableOCR: true}
	b := Options{Strategy: "table_focus", Language: "en", EnableOCR: true}

	keyA := cache.Key("samehash", a.Normalized())
	keyB := cache.Key("samehash", b.Normalized())
	if keyA != keyB {
		t.Errorf("normalized options must hash identically: %s vs %s", keyA, keyB)
	}

	c := Options{Strategy: "table_focus", Language: "en", EnableOCR: false}
	if cache.Key("samehash", c.Normalized()) == keyA {
		t.Error("different options must produce different keys")
	}
	if cache.Key("otherhash", b.Normalized()) == keyB {
		t.Error("different content must produce different keys")
	}
}

func TestOptionsTablesDefaultTrue(t *testing.T) {
	if !(Options{}).tablesEnabled() {
		t.Error("table extraction must default to enabled")
	}
	f := false
	if (Options{ExtractTables: &f}).tablesEnabled() {
		t.Error("explicit false not honored")
	}
	tr := true
	if !(Options{ExtractTables: &tr}).tablesEnabled() {
		t.Error("explicit true not honored")
	}

	// Spelling out the default must not change the cache key.
	implicit := cache.Key("samehash", Options{}.Normalized())
	explicit := cache.Key("samehash", Options{ExtractTables: &tr}.Normalized())
	if implicit != explicit {
		t.Errorf("defaulted and explicit options must hash identically: %s vs %s", implicit, explicit)
	}
	disabled := cache.Key("samehash", Options{ExtractTables: &f}.Normalized())
	if disabled == implicit {
		t.Error("disabling tables must change the cache key")
	}
}

func TestValidateOptionsValue(t *testing.T) {
	decode := func(s string) any {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			t.Fatalf("bad fixture: %v", err)
		}
		return v
	}

	valid := `{"strategy": "hybrid", "enableOcr": true, "language": "de"}`
	if err := ValidateOptionsValue(decode(valid)); err != nil {
		t.Errorf("valid options rejected: %v", err)
	}

	unknownKey := `{"strategy": "hybrid", "turboMode": true}`
	if err := ValidateOptionsValue(decode(unknownKey)); err == nil {
		t.Error("unknown top-level key should be rejected")
	}

	wrongType := `{"enableOcr": "yes"}`
	if err := ValidateOptionsValue(decode(wrongType)); err == nil {
		t.Error("wrong value type should be rejected")
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := (Options{Language: "en"}).Validate(); err != nil {
		t.Errorf("valid language rejected: %v", err)
	}
	if err := (Options{Language: "much-too-long-tag"}).Validate(); err == nil {
		t.Error("overlong language tag accepted")
	}
	if err := (Options{Strategy: "turbo"}).Validate(); err != nil {
		t.Errorf("unknown strategy must validate (downgraded later): %v", err)
	}
}

func TestClassifyExtractionError(t *testing.T) {
	tempErr := classifyExtractionError(common.WrapError(common.ErrTempSpace, "batch 2"))
	if !common.Retryable(tempErr) {
		t.Error("temp-space exhaustion must be retryable")
	}

	structural := classifyExtractionError(errors.New("garbled xref"))
	if common.Retryable(structural) {
		t.Error("structural failure must not be retryable")
	}

	var ae *common.AppError
	if !errors.As(tempErr, &ae) || ae.Code != "TEMP_SPACE" {
		t.Errorf("unexpected classification: %v", tempErr)
	}

	passthrough := common.NewRetryableError("VISION_HTTP", "503", nil)
	if got := classifyExtractionError(passthrough); got != passthrough {
		t.Errorf("existing AppError must pass through, got %v", got)
	}
}
