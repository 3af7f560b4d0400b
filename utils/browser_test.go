package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunWithin_ReturnsRunResult(t *testing.T) {
	aborted := false
	launchErr := errors.New("chrome not found")

	err := runWithin(time.Second, func() { aborted = true }, func() error {
		return launchErr
	})

	assert.ErrorIs(t, err, launchErr)
	assert.False(t, aborted)
}

func TestRunWithin_AbortsHungLaunch(t *testing.T) {
	release := make(chan struct{})
	abort := func() { close(release) }

	start := time.Now()
	err := runWithin(50*time.Millisecond, abort, func() error {
		// Stands in for a chromedp.Run that only returns once its context is cancelled
		<-release
		return context.Canceled
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
