package commands

import (
	"errors"
	"strings"
	"testing"

	apierrors "github.com/diogo/askchat/internal/errors"
)

func TestFormatErrorMessage_Nil(t *testing.T) {
	if got := formatErrorMessage(nil, "ctx"); got != "" {
		t.Fatalf("expected empty for nil error, got %s", got)
	}
}

func TestFormatErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "delivery error with status",
			err:  apierrors.NewDeliveryErrorWithStatus("decode response", "http://localhost:5001/ask", 502, errors.New("invalid character '<'")),
			want: []string{"✗ Failed", "HTTP Status: 502", "Endpoint: http://localhost:5001/ask", "Hint"},
		},
		{
			name: "malformed response with server message",
			err:  apierrors.NewMalformedResponseError(400, "http://localhost:5001/ask", "Question not provided", ""),
			want: []string{"Server said: Question not provided", "answer"},
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: []string{"Cause: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatErrorMessage(tt.err, "Failed")
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("missing %q in:\n%s", w, out)
				}
			}
		})
	}
}
