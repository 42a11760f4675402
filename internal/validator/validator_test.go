package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llmsforge/ingest/internal/validator"
)

func TestDetectFindsScriptBlock(t *testing.T) {
	result := validator.Detect(`<script>alert(1)</script> some text`)
	require.True(t, result.HasAny())
	require.Equal(t, "low", result.Severity)
}

func TestDetectCleanTextFindsNothing(t *testing.T) {
	result := validator.Detect("Just a normal paragraph of documentation text about configuration.")
	require.False(t, result.HasAny())
	require.Equal(t, "none", result.Severity)
}

func TestCheckThresholdsPassesWellFormedText(t *testing.T) {
	text := strings.Repeat("This is a normal sentence about the product configuration. ", 10)
	detection := validator.Detect(text)
	result := validator.CheckThresholds(text, detection, validator.DefaultThresholds())
	require.True(t, result.Passed)
}

func TestValidateSanitizeAndRetryPath(t *testing.T) {
	text := strings.Repeat("This document explains the API in good detail with examples and context. ", 8) +
		"onclick=\"doStuff()\" remains in the text."

	report := validator.Validate(text, validator.DefaultThresholds())
	require.True(t, report.Detection.HasAny() || report.SanitizedApplied)
}
