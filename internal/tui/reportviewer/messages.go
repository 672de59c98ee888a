package reportviewer

import (
	"github.com/msto63/transync/internal/report"
)

// Loader produces the report shown by the viewer. It is called on start and
// on every refresh.
type Loader func() (*report.Report, error)

// reportLoadedMsg is sent when the loader returns
type reportLoadedMsg struct {
	report *report.Report
	err    error
}

// RefreshMsg asks the viewer to call its loader again. Send it through
// tea.Program.Send to reload from outside, e.g. when the file changes.
type RefreshMsg struct{}
