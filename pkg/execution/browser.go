/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: browser.go
Description: Browser oracle using chromedp. Loads each input as an HTML document in a fresh
headless Chrome tab, counts uncaught JavaScript exceptions and reports V8 precise coverage
ranges with a non-zero hit count as coverage units.
*/

package execution

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/profiler"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/kleascm/polyfuzz/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// BrowserOracle implements the Oracle interface for HTML inputs
type BrowserOracle struct {
	ctx     context.Context
	cancel  context.CancelFunc
	alloc   context.CancelFunc
	timeout time.Duration
	logger  *logrus.Logger
}

// NewBrowserOracle launches a headless browser shared by all executions
func NewBrowserOracle(ctx context.Context, timeout time.Duration, logger *logrus.Logger) (*BrowserOracle, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Debugf))

	// Run with no actions starts the browser
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return &BrowserOracle{
		ctx:     browserCtx,
		cancel:  browserCancel,
		alloc:   allocCancel,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Execute loads input in a new tab and observes it
func (o *BrowserOracle) Execute(ctx context.Context, input string) (*interfaces.Observation, error) {
	tabCtx, tabCancel := chromedp.NewContext(o.ctx)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	runCtx := tabCtx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(tabCtx, o.timeout)
		defer cancel()
	}

	var exceptions atomic.Int32
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if e, ok := ev.(*runtime.EventExceptionThrown); ok {
			exceptions.Add(1)
			o.logger.WithField("exception", e.ExceptionDetails.Text).Debug("Page raised an exception")
		}
	})

	var scripts []*profiler.ScriptCoverage
	start := time.Now()
	err := chromedp.Run(runCtx,
		runtime.Enable(),
		profiler.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := profiler.StartPreciseCoverage().WithCallCount(true).WithDetailed(true).Do(ctx)
			return err
		}),
		chromedp.Navigate("data:text/html;base64,"+base64.StdEncoding.EncodeToString([]byte(input))),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			scripts, _, err = profiler.TakePreciseCoverage().Do(ctx)
			return err
		}),
	)
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return nil, fmt.Errorf("execution cancelled: %w", ctx.Err())
	}

	obs := &interfaces.Observation{ExecutionTime: elapsed}
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("browser execution failed: %w", err)
		}
		// A page that never finishes loading counts as a hang
		obs.Exceptions = 1
	}
	obs.Exceptions += int(exceptions.Load())
	obs.Coverage = coverageUnits(scripts)
	return obs, nil
}

// coverageUnits names every executed range as script:function:start-end
func coverageUnits(scripts []*profiler.ScriptCoverage) []string {
	var units []string
	inline := 0
	for _, script := range scripts {
		name := script.URL
		if name == "" || strings.HasPrefix(name, "data:") {
			name = fmt.Sprintf("inline#%d", inline)
			inline++
		}
		for _, fn := range script.Functions {
			for _, r := range fn.Ranges {
				if r.Count == 0 {
					continue
				}
				units = append(units, fmt.Sprintf("%s:%s:%d-%d", name, fn.FunctionName, r.StartOffset, r.EndOffset))
			}
		}
	}
	return units
}

// Close shuts the browser down
func (o *BrowserOracle) Close() error {
	if o.cancel != nil {
		o.cancel()
	}
	if o.alloc != nil {
		o.alloc()
	}
	return nil
}
