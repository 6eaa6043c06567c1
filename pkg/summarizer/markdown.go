package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document with tables.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds the generator version to the header.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter. Labels are untranslated by default.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: func(s string) string { return s }}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Render Summary"))
	fmt.Fprintf(&b, "- %s: %s\n", t("Generated"), s.GeneratedAt.Format(time.RFC3339))
	if f.version != "" {
		fmt.Fprintf(&b, "- %s: mdposter %s\n", t("Version"), f.version)
	}
	if s.RequestID != "" {
		fmt.Fprintf(&b, "- %s: %s\n", t("Request"), s.RequestID)
	}
	b.WriteString("\n")

	f.table(&b, t("Results"), [][2]string{
		{t("Source"), sourceLabel(s.Source, t)},
		{t("Browser Launch"), ms(s.Timing.LaunchMs)},
		{t("Page Load"), ms(s.Timing.NavigationMs)},
		{t("Poster Visible"), ms(s.Timing.MarkerMs)},
		{t("Images Settled"), f.imagesLabel(s.Timing)},
		{t("Status"), f.statusLabel(s)},
	})

	f.table(&b, t("Resources"), [][2]string{
		{t("Images"), fmt.Sprintf("%d (%s %d, %s %d)", s.Resources.Images, t("loaded"), s.Resources.ImagesLoaded, t("failed"), s.Resources.ImagesFailed)},
		{t("Requests Allowed"), fmt.Sprint(s.Resources.RequestsAllowed)},
		{t("Requests Blocked"), fmt.Sprint(s.Resources.RequestsAborted)},
	})

	f.table(&b, t("Settings"), [][2]string{
		{t("Mode"), orNone(s.Settings.Mode, t)},
		{t("Browser"), orNone(s.Settings.ProfileSource, t)},
		{t("Viewport"), fmt.Sprintf("%dx%d @%gx", s.Settings.ViewportWidth, s.Settings.ViewportHeight, s.Settings.ScaleFactor)},
		{t("Format"), orNone(s.Settings.Format, t)},
	})

	if s.Error == "" {
		f.table(&b, t("Image Details"), [][2]string{
			{t("File"), orNone(s.Output.Path, t)},
			{t("File Size"), formatBytes(s.Output.FileSize)},
			{t("Poster Size"), fmt.Sprintf("%dx%d", s.Output.Width, s.Output.Height)},
		})
	}

	return b.String()
}

func (f *MarkdownFormatter) table(b *strings.Builder, title string, rows [][2]string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintf(b, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	b.WriteString("|---|---|\n")
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", row[0], escapeCell(row[1]))
	}
	b.WriteString("\n")
}

func (f *MarkdownFormatter) imagesLabel(timing TimingInfo) string {
	if timing.ImagesTimedOut {
		return fmt.Sprintf("%s (%ds)", f.translate("Timeout"), timing.ImageCeilingSec)
	}
	return ms(timing.ImagesMs)
}

func (f *MarkdownFormatter) statusLabel(s *Summary) string {
	if s.Error != "" {
		return f.translate("Failed") + ": " + s.Error
	}
	return fmt.Sprintf("%s (%s)", f.translate("Succeeded"), ms(s.Timing.TotalMs))
}

func sourceLabel(src SourceInfo, t func(string) string) string {
	name := src.Path
	if name == "" || name == "-" {
		name = t("stdin")
	}
	return fmt.Sprintf("%s (%s)", name, formatBytes(int64(src.Bytes)))
}

func orNone(v string, t func(string) string) string {
	if v == "" {
		return t("None")
	}
	return v
}

func ms(v int) string {
	return fmt.Sprintf("%d ms", v)
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}

// formatBytes renders a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
