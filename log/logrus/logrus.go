// Package logrus adapts a *logrus.Entry to crypter.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/crypter"
)

var _ crypter.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

func New(l *logrus.Logger) Logger { return Logger{E: logrus.NewEntry(l)} }

func (l Logger) Debug(msg string, f crypter.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f crypter.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f crypter.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f crypter.Fields) { l.with(f).Error(msg) }

// with maps an "err" field onto logrus' own error key.
func (l Logger) with(f crypter.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	lf := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			lf[logrus.ErrorKey] = err
			continue
		}
		lf[k] = v
	}
	return l.E.WithFields(lf)
}
