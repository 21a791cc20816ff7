/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: executor.go
Description: Process oracle for polyfuzz. Runs the target binary once per input, feeding the
input on stdin or through a temp file, and reports exceptions (crash, non-zero exit, timeout),
wall-clock execution time and the coverage units gathered by a coverage collector.
*/

package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/kleascm/polyfuzz/pkg/coverage"
	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// InputPlaceholder in target arguments is replaced with the input file path
const InputPlaceholder = "@@"

// ProcessOracle implements the Oracle interface for native targets
type ProcessOracle struct {
	path      string
	args      []string
	env       []string
	inputMode string
	timeout   time.Duration
	collector coverage.Collector
	logger    *logrus.Logger

	// One execution at a time; the collector's profile file is shared
	mu sync.Mutex
}

// NewProcessOracle creates a process oracle from the target section of config
func NewProcessOracle(config *interfaces.FuzzerConfig, collector coverage.Collector, logger *logrus.Logger) (*ProcessOracle, error) {
	if config.TargetPath == "" {
		return nil, fmt.Errorf("target binary is required")
	}
	if _, err := exec.LookPath(config.TargetPath); err != nil {
		return nil, fmt.Errorf("target binary not executable: %w", err)
	}
	if collector == nil {
		collector = coverage.NewMarkerCollector()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	mode := config.InputMode
	if mode == "" {
		mode = "stdin"
	}
	return &ProcessOracle{
		path:      config.TargetPath,
		args:      config.TargetArgs,
		env:       config.TargetEnv,
		inputMode: mode,
		timeout:   config.Timeout,
		collector: collector,
		logger:    logger,
	}, nil
}

// Execute runs the target on input and observes it
func (o *ProcessOracle) Execute(ctx context.Context, input string) (*interfaces.Observation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.collector.Prepare(); err != nil {
		return nil, err
	}

	execCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	args, cleanup, err := o.buildArgs(input)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cmd := exec.CommandContext(execCtx, o.path, args...)
	cmd.Env = append(os.Environ(), o.env...)
	cmd.Env = append(cmd.Env, o.collector.Env()...)
	if o.inputMode == "stdin" {
		cmd.Stdin = strings.NewReader(input)
	}
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return nil, fmt.Errorf("execution cancelled: %w", ctx.Err())
	}

	obs := &interfaces.Observation{ExecutionTime: elapsed}
	if runErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(execCtx.Err(), context.DeadlineExceeded):
			obs.Exceptions = 1
			o.logger.WithField("timeout", o.timeout).Debug("Target timed out")
		case errors.As(runErr, &exitErr):
			obs.Exceptions = 1
			o.logExit(exitErr)
		default:
			return nil, fmt.Errorf("failed to run target: %w", runErr)
		}
	}

	units, err := o.collector.Collect(output.Bytes())
	if err != nil {
		// A target that died early may never write its profile
		if !(obs.Exceptions > 0 && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to collect coverage: %w", err)
		}
	}
	obs.Coverage = units
	return obs, nil
}

// buildArgs returns the target arguments, writing the input file in file mode
func (o *ProcessOracle) buildArgs(input string) ([]string, func(), error) {
	if o.inputMode != "file" {
		return o.args, func() {}, nil
	}
	tmpfile, err := os.CreateTemp("", "fuzzinput")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create input file: %w", err)
	}
	cleanup := func() { os.Remove(tmpfile.Name()) }
	if _, err := tmpfile.WriteString(input); err != nil {
		tmpfile.Close()
		cleanup()
		return nil, nil, fmt.Errorf("failed to write input file: %w", err)
	}
	tmpfile.Close()

	args := make([]string, 0, len(o.args)+1)
	replaced := false
	for _, a := range o.args {
		if a == InputPlaceholder {
			a = tmpfile.Name()
			replaced = true
		}
		args = append(args, a)
	}
	if !replaced {
		args = append(args, tmpfile.Name())
	}
	return args, cleanup, nil
}

// logExit records how the target exited
func (o *ProcessOracle) logExit(exitErr *exec.ExitError) {
	fields := logrus.Fields{"exit_code": exitErr.ExitCode()}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		fields["signal"] = status.Signal().String()
	}
	o.logger.WithFields(fields).Debug("Target raised an exception")
}

// Close removes collector state
func (o *ProcessOracle) Close() error {
	return o.collector.Cleanup()
}
