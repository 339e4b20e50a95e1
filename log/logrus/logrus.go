// Package logrus adapts github.com/sirupsen/logrus to the log.Log
// interface, for host binaries that already standardize on logrus and
// don't want to write their own adapter.
package logrus

import (
	"fmt"
	"sync/atomic"

	logrus "github.com/sirupsen/logrus"

	"github.com/go-dirtree/dirtree/log"
)

type Logrus struct {
	Logger  *logrus.Logger
	Enable  log.Topics
	counter uint64
}

func (l *Logrus) Enabled(topics log.Topics) bool {
	return (l.Enable & topics) != 0
}

func (l *Logrus) Call(name string, args log.M) string {
	if !l.Enabled(log.TopicCall) {
		return ""
	}
	cookie := fmt.Sprintf("%x", atomic.AddUint64(&l.counter, 1))
	l.Logger.WithFields(logrus.Fields{
		"name":   name,
		"cookie": cookie,
	}).WithFields(logrus.Fields(args)).Info("call")
	return cookie
}

func (l *Logrus) Log(topics log.Topics, msg string) {
	if !l.Enabled(topics) {
		return
	}
	// TODO: assign different level for topics.
	l.Logger.Info(msg)
}

func (l *Logrus) Logf(topics log.Topics, msg string, args ...any) {
	if !l.Enabled(topics) {
		return
	}
	// TODO: assign different level for topics.
	l.Logger.Infof(msg, args...)
}

func (l *Logrus) Return(name, cookie string, rets log.M) {
	if !l.Enabled(log.TopicCall) {
		return
	}
	l.Logger.WithFields(logrus.Fields{
		"name":   name,
		"cookie": cookie,
	}).WithFields(logrus.Fields(rets)).Info("return")
}

var _ log.Log = (*Logrus)(nil)

func Default() *Logrus {
	return &Logrus{
		Logger: logrus.New(),
		Enable: log.AllTopics,
	}
}
