package logging

// nopLogger discards everything. Used in tests and as a safe default before
// Init has run.
type nopLogger struct{}

func NewNopLogger() Logger {
	return nopLogger{}
}

func (nopLogger) Init() {}

func (nopLogger) Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {}
func (nopLogger) Debugf(template string, args ...any)                                     {}
func (nopLogger) Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)  {}
func (nopLogger) Infof(template string, args ...any)                                      {}
func (nopLogger) Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)  {}
func (nopLogger) Warnf(template string, args ...any)                                      {}
func (nopLogger) Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {}
func (nopLogger) Errorf(template string, args ...any)                                     {}
func (nopLogger) Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {}
func (nopLogger) Fatalf(template string, args ...any)                                     {}
