package ui

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// MultiProgress tracks multiple concurrent operations with live updates.
type MultiProgress struct {
	ui          *UI
	items       map[string]*ProgressItem
	order       []string // Maintains insertion order
	mu          sync.Mutex
	rendered    bool
	lineCount   int
	completions []string // Completed items to print at the end
}

// ProgressItem represents a single item being tracked.
type ProgressItem struct {
	Name      string
	Total     int64
	Current   int64
	StartTime time.Time
	Status    Status
	Message   string // Final message when complete
	Error     error
	bar       progress.Model
}

// NewMultiProgress creates a new multi-line progress tracker.
func (u *UI) NewMultiProgress() *MultiProgress {
	return &MultiProgress{
		ui:    u,
		items: make(map[string]*ProgressItem),
	}
}

// AddItem adds a new item to track.
func (m *MultiProgress) AddItem(name string, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(25),
		progress.WithoutPercentage(),
	)

	item := &ProgressItem{
		Name:      name,
		Total:     total,
		StartTime: time.Now(),
		Status:    StatusPending,
		bar:       bar,
	}

	m.items[name] = item
	m.order = append(m.order, name)
}

// Update sets the current progress for an item.
func (m *MultiProgress) Update(name string, current int64) {
	m.mu.Lock()
	if item, ok := m.items[name]; ok {
		item.Current = current
		if item.Status == StatusPending {
			item.Status = StatusProgress
		}
	}
	m.mu.Unlock()

	m.Render()
}

// Complete marks an item as successfully completed.
func (m *MultiProgress) Complete(name string, message string) {
	m.mu.Lock()
	if item, ok := m.items[name]; ok {
		item.Status = StatusSuccess
		item.Message = message
		item.Current = item.Total
	}
	m.mu.Unlock()

	m.Render()
}

// Fail marks an item as failed.
func (m *MultiProgress) Fail(name string, err error) {
	m.mu.Lock()
	if item, ok := m.items[name]; ok {
		item.Status = StatusError
		item.Error = err
	}
	m.mu.Unlock()

	m.Render()
}

// Render redraws all progress lines.
func (m *MultiProgress) Render() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ui.shouldStyle() {
		// Non-TTY: handled elsewhere
		return
	}

	// Move cursor up to overwrite previous output
	if m.rendered && m.lineCount > 0 {
		fmt.Fprintf(os.Stdout, "\033[%dA", m.lineCount)
	}

	// Render each item
	var lines []string
	for _, name := range m.order {
		item := m.items[name]
		line := m.renderItem(item)
		lines = append(lines, line)
	}

	// Print all lines
	for _, line := range lines {
		fmt.Fprintf(os.Stdout, "\033[K%s\n", line)
	}

	m.rendered = true
	m.lineCount = len(lines)
}

// renderItem renders a single progress item.
func (m *MultiProgress) renderItem(item *ProgressItem) string {
	nameStyle := lipgloss.NewStyle().Width(15)
	var symbol, detail string

	switch item.Status {
	case StatusPending:
		symbol = StyleMuted.Render(SymbolPending)
		detail = StyleMuted.Render("waiting...")

	case StatusProgress:
		symbol = StyleProgress.Render(SymbolProgress)
		if item.Total > 0 {
			pct := float64(item.Current) / float64(item.Total)
			if pct > 1 {
				pct = 1
			}
			elapsed := time.Since(item.StartTime)
			rate := float64(item.Current) / elapsed.Seconds()

			detail = fmt.Sprintf("%s %s %.1f/s",
				item.bar.ViewAs(pct),
				StyleMuted.Render(fmt.Sprintf("%d/%d", item.Current, item.Total)),
				rate,
			)
		} else {
			detail = StyleMuted.Render("loading...")
		}

	case StatusSuccess:
		symbol = StyleSuccess.Render(SymbolSuccess)
		if item.Message != "" {
			detail = item.Message
		} else {
			detail = StyleSuccess.Render("complete")
		}

	case StatusError:
		symbol = StyleError.Render(SymbolError)
		if item.Error != nil {
			detail = StyleError.Render(item.Error.Error())
		} else {
			detail = StyleError.Render("failed")
		}
	}

	return fmt.Sprintf("  %s %s %s", symbol, nameStyle.Render(item.Name), detail)
}

// Finish clears the multi-progress display and prints final results.
func (m *MultiProgress) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ui.shouldStyle() {
		return
	}

	// Move cursor up and clear all lines
	if m.rendered && m.lineCount > 0 {
		fmt.Fprintf(os.Stdout, "\033[%dA", m.lineCount)
		for i := 0; i < m.lineCount; i++ {
			fmt.Fprint(os.Stdout, "\033[K\n")
		}
		fmt.Fprintf(os.Stdout, "\033[%dA", m.lineCount)
	}

	// Sort by status: completed first (success, then error), then pending
	type sortedItem struct {
		name    string
		item    *ProgressItem
		sortKey int
	}
	var sorted []sortedItem
	for _, name := range m.order {
		item := m.items[name]
		key := 0
		switch item.Status {
		case StatusSuccess:
			key = 0
		case StatusError:
			key = 1
		default:
			key = 2
		}
		sorted = append(sorted, sortedItem{name, item, key})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].sortKey != sorted[j].sortKey {
			return sorted[i].sortKey < sorted[j].sortKey
		}
		return sorted[i].name < sorted[j].name
	})

	// Print final state
	for _, s := range sorted {
		line := m.renderItem(s.item)
		fmt.Println(line)
	}
}

// PrintPlain prints a plain-text line for non-TTY output.
func (m *MultiProgress) PrintPlain(format string, args ...interface{}) {
	if m.ui.shouldStyle() {
		return
	}
	fmt.Printf(format, args...)
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", mins, secs)
	}
	hrs := int(d.Hours())
	mins := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hrs, mins)
}

// DurationSince returns formatted duration since a time.
func DurationSince(t time.Time) string {
	return formatDuration(time.Since(t))
}

// Section prints a section header.
func (u *UI) Section(title string) {
	if !u.shouldStyle() {
		fmt.Printf("\n%s\n", title)
		return
	}

	fmt.Printf("\n%s\n", lipgloss.NewStyle().Bold(true).Render(title))
}
