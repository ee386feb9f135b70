package observability

import (
	"testing"
	"time"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("GET", "/fetch", 200, 12*time.Millisecond)
	RecordGeminiFetch(20, 24*time.Millisecond, 4096, 1)
	RecordGeminiFetch(0, time.Millisecond, 0, 0)
}

func TestCategoryLabel(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{10, "input"},
		{20, "success"},
		{31, "redirect"},
		{44, "temporary_failure"},
		{51, "permanent_failure"},
		{60, "cert_required"},
		{0, "error"},
		{99, "error"},
	}

	for _, tc := range tests {
		if got := categoryLabel(tc.status); got != tc.want {
			t.Fatalf("categoryLabel(%d): got=%q want=%q", tc.status, got, tc.want)
		}
	}
}
