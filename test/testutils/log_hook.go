package testutils

import (
	"github.com/sirupsen/logrus"
)

// LogChannel is a channel implementing logrus.Hook.
type LogChannel chan *logrus.Entry

// NewLogChannel creates a new LogChannel.
func NewLogChannel(bufSize int) LogChannel {
	return make(chan *logrus.Entry, bufSize)
}

// Fire implements the logrus.Hook interface. Entries beyond the buffer are dropped.
func (lc LogChannel) Fire(entry *logrus.Entry) error {
	select {
	case lc <- entry:
	default:
	}
	return nil
}

// Levels implements the logrus.Hook interface.
func (lc LogChannel) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Drain returns the entries received so far.
func (lc LogChannel) Drain() []*logrus.Entry {
	var out []*logrus.Entry
	for {
		select {
		case e := <-lc:
			out = append(out, e)
		default:
			return out
		}
	}
}
