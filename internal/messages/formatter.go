// Package messages renders the plain-text job card and daily report messages
// shared with customers and the garage owner.
package messages

import (
	"embed"
	"fmt"
	"io/fs"
	"text/template"
	"time"

	"garagepro/internal/domain"
	"garagepro/internal/lifecycle"
	"garagepro/internal/reports"
	"garagepro/internal/templates"
)

//go:embed templates
var templateFS embed.FS

// DefaultGarageName signs messages when no business name is configured
const DefaultGarageName = "Garage Service Pro"

// GeneratedOnLayout is the timestamp layout of the report footer
const GeneratedOnLayout = "2/1/2006, 3:04:05 pm"

const reportTemplate = "report/daily"

// Options configures a Formatter
type Options struct {
	GarageName string
	Currency   Currency
	Location   *time.Location
}

// Formatter renders messages from the embedded templates
type Formatter struct {
	tm       *templates.Manager
	garage   string
	currency Currency
	loc      *time.Location
}

// NewFormatter parses the message templates once
func NewFormatter(opts Options) (*Formatter, error) {
	f := &Formatter{
		garage:   opts.GarageName,
		currency: opts.Currency,
		loc:      opts.Location,
	}
	if f.garage == "" {
		f.garage = DefaultGarageName
	}
	if f.currency.Symbol == "" && f.currency.Code == "" {
		f.currency = DefaultCurrency
	}
	if f.loc == nil {
		f.loc = time.Local
	}

	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	tm, err := templates.NewManager(sub, template.FuncMap{
		"money": f.currency.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load message templates: %w", err)
	}
	f.tm = tm

	return f, nil
}

// Currency returns the configured currency
func (f *Formatter) Currency() Currency {
	return f.currency
}

type jobCardData struct {
	Job    domain.JobCard
	Garage string
}

// JobCard renders the message for one job card. Unknown intents fall back to
// the generic job update.
func (f *Formatter) JobCard(intent lifecycle.Intent, jc domain.JobCard) (string, error) {
	name := "jobcard/" + string(intent)
	if !f.tm.Has(name) {
		name = "jobcard/" + string(lifecycle.IntentJobUpdate)
	}
	return f.tm.RenderString(name, jobCardData{Job: jc, Garage: f.garage})
}

type reportData struct {
	Report      reports.Report
	Garage      string
	GeneratedOn string
}

// Report renders the daily report message stamped with generatedAt
func (f *Formatter) Report(r reports.Report, generatedAt time.Time) (string, error) {
	return f.tm.RenderString(reportTemplate, reportData{
		Report:      r,
		Garage:      f.garage,
		GeneratedOn: generatedAt.In(f.loc).Format(GeneratedOnLayout),
	})
}
