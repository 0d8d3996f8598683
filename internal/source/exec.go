package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Exec spawns a legacy backend binary as a subprocess. The backend
// speaks a one-command-per-invocation protocol and prints JSON on
// stdout: `<cmd> GET_ALL_CONCEPTS` and `<cmd> SET_DECAY_RATE <rate>`.
type Exec struct {
	command string
	timeout time.Duration
}

// NewExec creates an exec source for the given backend command.
// timeoutSecs <= 0 falls back to 5 seconds.
func NewExec(command string, timeoutSecs int) *Exec {
	if timeoutSecs <= 0 {
		timeoutSecs = 5
	}
	return &Exec{
		command: command,
		timeout: time.Duration(timeoutSecs) * time.Second,
	}
}

// Concepts runs GET_ALL_CONCEPTS and parses the JSON array it prints.
func (e *Exec) Concepts(ctx context.Context) ([]RawConcept, error) {
	out, err := e.run(ctx, "GET_ALL_CONCEPTS")
	if err != nil {
		return nil, err
	}

	concepts, err := parseConcepts(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, e.command, err)
	}
	return concepts, nil
}

// PushDecayRate runs SET_DECAY_RATE and checks the backend's status.
func (e *Exec) PushDecayRate(ctx context.Context, rate float64) error {
	out, err := e.run(ctx, "SET_DECAY_RATE", strconv.FormatFloat(rate, 'f', -1, 64))
	if err != nil {
		return err
	}

	var ack struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(out, &ack); err != nil {
		return fmt.Errorf("%w: %s: bad ack: %v", ErrUnavailable, e.command, err)
	}
	if ack.Status != "success" {
		return fmt.Errorf("%w: %s: %s", ErrUnavailable, e.command, ack.Message)
	}
	return nil
}

func (e *Exec) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v (stderr: %s)",
			ErrUnavailable, e.command, args[0], err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// parseConcepts decodes a backend concept array. Unknown fields are
// ignored; the seed transition only reads the fields it needs.
func parseConcepts(data []byte) ([]RawConcept, error) {
	var concepts []RawConcept
	if err := json.Unmarshal(bytes.TrimSpace(data), &concepts); err != nil {
		return nil, fmt.Errorf("parse concepts: %w", err)
	}
	return concepts, nil
}
