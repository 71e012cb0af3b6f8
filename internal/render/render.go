// Package render turns a classified program into an HTML page.
//
// Pages are built from templ components so the server can stream them
// straight into a response and the CLI can write them to a file.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/confprogram/internal/core"
	"github.com/JonMunkholm/confprogram/internal/schedule"
)

// Options tweaks what a page shows.
type Options struct {
	// ShowDiagnostics lists data-quality problems above the program.
	ShowDiagnostics bool
}

// WriteHTML renders the full program page to w.
func WriteHTML(ctx context.Context, w io.Writer, p *core.Program, opts Options) error {
	return ProgramPage(p, opts).Render(ctx, w)
}

// ProgramPage is the standalone program document.
func ProgramPage(p *core.Program, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := p.Event
		if title == "" {
			title = "Conference"
		}

		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(title + " program")
		h.raw("</title><style>")
		h.raw(pageStyle)
		h.raw("</style></head><body><header><h1>")
		h.text(title)
		h.raw(`</h1><p class="meta">`)
		h.text(fmt.Sprintf("%d talks, %d posters", len(p.Talks), len(p.Posters)))
		if !p.GeneratedAt.IsZero() {
			h.text(" · generated " + p.GeneratedAt.Format(time.RFC1123))
		}
		h.raw("</p></header><main>")
		if h.err != nil {
			return h.err
		}

		if opts.ShowDiagnostics && len(p.Diagnostics) > 0 {
			if err := DiagnosticList(p.Diagnostics).Render(ctx, w); err != nil {
				return err
			}
		}
		if err := TalkList(p.Talks).Render(ctx, w); err != nil {
			return err
		}
		if err := PosterList(p.Posters).Render(ctx, w); err != nil {
			return err
		}

		h.raw("</main>")
		if p.RunID != "" {
			h.raw(`<footer class="meta">run `)
			h.text(p.RunID)
			h.raw("</footer>")
		}
		h.raw("</body></html>")
		return h.err
	})
}

// TalkList renders talks grouped by day, in the order given.
func TalkList(talks []core.Submission) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="talks"><h2>Talks</h2>`)
		if len(talks) == 0 {
			h.raw(`<p class="empty">No talks yet.</p></section>`)
			return h.err
		}

		current := ""
		open := false
		for _, t := range talks {
			if day := dayHeading(t); day != current || !open {
				if open {
					h.raw("</ol>")
				}
				if day != "" {
					h.raw("<h3>")
					h.text(day)
					h.raw("</h3>")
				}
				h.raw(`<ol class="talks">`)
				current, open = day, true
			}

			h.raw(`<li class="talk `)
			h.text(t.Type)
			h.raw(`">`)
			if when := slotLabel(t); when != "" {
				h.raw(`<span class="when">`)
				h.text(when)
				h.raw("</span> ")
			}
			h.raw(`<span class="title">`)
			h.text(t.Title)
			h.raw("</span>")
			if t.Type == core.TypeInvited {
				h.raw(` <span class="badge">invited</span>`)
			}
			writeCredits(h, t)
			h.raw("</li>")
		}
		h.raw("</ol></section>")
		return h.err
	})
}

// PosterList renders posters with their numbers, in the order given.
func PosterList(posters []core.Submission) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="posters"><h2>Posters</h2>`)
		if len(posters) == 0 {
			h.raw(`<p class="empty">No posters yet.</p></section>`)
			return h.err
		}

		h.raw(`<ol class="posters">`)
		for _, p := range posters {
			number := p.PosterNumber
			if number == "" {
				number = schedule.TBA
			}
			h.raw(`<li class="poster" id="poster-`)
			h.text(number)
			h.raw(`"><span class="num">`)
			h.text(number)
			h.raw(`</span> <span class="title">`)
			h.text(p.Title)
			h.raw("</span>")
			writeCredits(h, p)
			h.raw("</li>")
		}
		h.raw("</ol></section>")
		return h.err
	})
}

// DiagnosticList renders classification warnings for the organizers.
func DiagnosticList(diags []core.Diagnostic) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="diagnostics" class="warn"><h2>Check the spreadsheet</h2><ul>`)
		for _, d := range diags {
			h.raw(`<li data-kind="`)
			h.text(string(d.Kind))
			h.raw(`">`)
			h.text(d.Message)
			h.raw("</li>")
		}
		h.raw("</ul></section>")
		return h.err
	})
}

// ErrorAlert renders a user-facing error with its code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw("</strong>")
		if action != "" {
			h.raw("<p>")
			h.text(action)
			h.raw("</p>")
		}
		if code != "" {
			h.raw(`<p class="meta">Code: `)
			h.text(code)
			h.raw("</p>")
		}
		h.raw("</div>")
		return h.err
	})
}

// ErrorPage wraps ErrorAlert in a minimal document.
func ErrorPage(title string, alert templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(title)
		h.raw("</title><style>")
		h.raw(pageStyle)
		h.raw("</style></head><body><main>")
		if h.err != nil {
			return h.err
		}
		if err := alert.Render(ctx, w); err != nil {
			return err
		}
		h.raw("</main></body></html>")
		return h.err
	})
}

func writeCredits(h *htmlWriter, s core.Submission) {
	if authors := joinList(s.AuthorList); authors != "" {
		h.raw(`<div class="authors">`)
		h.text(authors)
		h.raw("</div>")
	}
	if affils := joinList(s.AffilList); affils != "" {
		h.raw(`<div class="affiliations">`)
		h.text(affils)
		h.raw("</div>")
	}
}

// joinList prints a split author or affiliation list. Entries are trimmed
// for display only.
func joinList(items []string) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return strings.Join(out, ", ")
}

// dayHeading names the day a talk is on, "" when talks are unscheduled.
func dayHeading(t core.Submission) string {
	if t.Start.IsZero() {
		return ""
	}
	return t.Start.Format("Monday, 2 January")
}

// slotLabel prints the time range, or TBA for talks without one.
func slotLabel(t core.Submission) string {
	slot := t.Slot()
	if slot.IsZero() {
		return ""
	}
	if t.Time == "" || t.Time == schedule.TBA {
		return schedule.TBA
	}
	if slot.End.IsZero() {
		return slot.Start.Format("15:04")
	}
	return slot.Start.Format("15:04") + "–" + slot.End.Format("15:04")
}

// htmlWriter keeps the first write error so markup can be emitted without
// checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

const pageStyle = `body{font-family:system-ui,sans-serif;max-width:56rem;margin:0 auto;padding:1rem;color:#222}
h1{margin-bottom:.2rem}h3{margin-top:1.5rem;border-bottom:1px solid #ddd}
.meta{color:#666;font-size:.9rem}
ol{list-style:none;padding:0}li{margin:.6rem 0}
.when,.num{display:inline-block;min-width:7rem;font-variant-numeric:tabular-nums;color:#555}
.num{min-width:3rem;font-weight:600}
.title{font-weight:600}.badge{font-size:.75rem;background:#eef;padding:0 .3rem;border-radius:.2rem}
.authors,.affiliations{margin-left:7rem;font-size:.9rem}.affiliations{color:#666}
.posters .authors,.posters .affiliations{margin-left:3rem}
.warn{background:#fff8e1;padding:.5rem 1rem;border-left:4px solid #f0ad4e}
.alert{background:#fdecea;padding:1rem;border-left:4px solid #d9534f}`
