package cron

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matryer/is"
)

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	clogger := cronLogger{logger}
	clogger.Info("foo")
	clogger.Error(fmt.Errorf("bar"), "test")
	if buf.String() != "DEBU foo\nERRO test err=bar\n" {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}

func TestSchedulerAddRemove(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(context.TODO())
	id, err := s.AddFunc("@every 30s", func() {})
	is.NoErr(err)
	s.Start()
	defer s.Shutdown()
	is.True(!s.Next(id).IsZero())
	s.Remove(id)
	is.True(s.Next(id).IsZero())
}

func TestSchedulerRuns(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(context.TODO())
	ran := make(chan struct{}, 1)
	_, err := s.AddFunc("@every 1s", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	is.NoErr(err)
	s.Start()
	defer s.Shutdown()
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job didn't run")
	}
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	is.NoErr(Validate("@every 30s"))
	is.NoErr(Validate("*/5 * * * *"))
	is.True(Validate("every now and then") != nil)
}
