package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vvka-141/airroutes/pkg/airroutes"
)

func TestForcedApprover_CountsDownAndApproves(t *testing.T) {
	var out bytes.Buffer
	var slept []time.Duration
	approver := &ForcedApprover{output: &out, sleepFn: func(d time.Duration) { slept = append(slept, d) }}

	approved, err := approver.RequestApproval(context.Background(), airroutes.ActionOverwrite, "airroutes")
	if err != nil {
		t.Fatalf("RequestApproval() error = %v", err)
	}
	if !approved {
		t.Fatal("RequestApproval() = false, want true")
	}

	wantTicks := int(airroutes.DefaultForceApprovalCountdown.Seconds())
	if len(slept) != wantTicks {
		t.Errorf("slept %d times, want %d", len(slept), wantTicks)
	}
	text := out.String()
	for _, want := range []string{"DANGER", "airroutes", "permanently delete", "Proceeding with overwrite"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestForcedApprover_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	approver := &ForcedApprover{output: &bytes.Buffer{}, sleepFn: func(time.Duration) {}}
	approved, err := approver.RequestApproval(ctx, airroutes.ActionReset, "airroutes")
	if approved {
		t.Error("cancelled approval must not approve")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestInteractiveApprover(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantApproved bool
		wantErr      bool
		wantOutput   string
	}{
		{"matching name", "airroutes\n", true, false, "Confirmed"},
		{"matching name without newline", "airroutes", true, false, "Confirmed"},
		{"surrounding whitespace", "  airroutes  \n", true, false, "Confirmed"},
		{"wrong name", "routes\n", false, false, "does not match"},
		{"empty input", "", false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			approver := &InteractiveApprover{input: strings.NewReader(tt.input), output: &out}

			approved, err := approver.RequestApproval(context.Background(), airroutes.ActionReset, "airroutes")
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequestApproval() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "failed to read input") {
				t.Errorf("error = %v, want read failure", err)
			}
			if approved != tt.wantApproved {
				t.Errorf("approved = %v, want %v", approved, tt.wantApproved)
			}
			text := out.String()
			if !strings.Contains(text, "WARNING") || !strings.Contains(text, "permanently delete") {
				t.Errorf("missing warning:\n%s", text)
			}
			if tt.wantOutput != "" && !strings.Contains(text, tt.wantOutput) {
				t.Errorf("output missing %q:\n%s", tt.wantOutput, text)
			}
		})
	}
}

// blockingReader never returns, like a terminal nobody types into.
type blockingReader struct{ done chan struct{} }

func (r blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, errors.New("closed")
}

func TestInteractiveApprover_CancelledWhileWaiting(t *testing.T) {
	reader := blockingReader{done: make(chan struct{})}
	defer close(reader.done)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	approver := &InteractiveApprover{input: reader, output: &bytes.Buffer{}}
	approved, err := approver.RequestApproval(ctx, airroutes.ActionOverwrite, "airroutes")
	if approved {
		t.Error("cancelled approval must not approve")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
}

func TestRefusingApprover(t *testing.T) {
	var out bytes.Buffer
	approved, err := NewRefusingApprover(&out).RequestApproval(context.Background(), airroutes.ActionReset, "airroutes")
	if err != nil {
		t.Fatalf("RequestApproval() error = %v", err)
	}
	if approved {
		t.Error("RefusingApprover approved")
	}
	if !strings.Contains(out.String(), "--force") {
		t.Errorf("refusal should mention --force: %q", out.String())
	}
}

func TestNewApprover_ForceWins(t *testing.T) {
	if _, ok := NewApprover(true, false).(*ForcedApprover); !ok {
		t.Error("NewApprover(force) should return a ForcedApprover")
	}
}

func TestNewApprover_NonInteractiveRefuses(t *testing.T) {
	t.Setenv("AIRROUTES_NON_INTERACTIVE", "1")
	if _, ok := NewApprover(false, false).(*RefusingApprover); !ok {
		t.Error("NewApprover without a terminal should refuse")
	}
}

func TestDescribe_UnknownAction(t *testing.T) {
	headline, consequence := describe("vacuum", "airroutes")
	if !strings.Contains(headline, "vacuum") || !strings.Contains(headline, "airroutes") {
		t.Errorf("headline = %q", headline)
	}
	if consequence == "" {
		t.Error("consequence should not be empty")
	}
}
