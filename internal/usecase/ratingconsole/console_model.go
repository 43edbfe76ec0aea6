// Package ratingconsole renders an interactive terminal console for
// browsing facilities and their ratings.
package ratingconsole

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"carescore/internal/bootstrap/logging"
	domainrating "carescore/internal/domain/rating"
	"carescore/internal/ports"
	ratinguc "carescore/internal/usecase/rating"
)

const maxShownFactors = 4
const maxShownIndicators = 5

type ConsoleOptions struct {
	Mode            string
	City            string
	Status          string
	Limit           int
	RefreshInterval time.Duration
}

type consoleModel struct {
	ctx             context.Context
	service         *ratinguc.Service
	mode            string
	city            string
	statusFilter    string
	limit           int
	refreshInterval time.Duration

	facilities    []ports.Facility
	selectedIndex int
	detail        domainrating.RatingResult
	hasDetail     bool
	status        string
}

type facilitiesLoadedMsg struct {
	items []ports.Facility
	err   error
}

type detailLoadedMsg struct {
	facilityID string
	result     domainrating.RatingResult
	hasDetail  bool
	err        error
}

type rateDoneMsg struct {
	facilityID string
	result     domainrating.RatingResult
	err        error
}

type tickMsg struct{}

func NewConsoleModel(ctx context.Context, service *ratinguc.Service, options ConsoleOptions) tea.Model {
	mode := strings.TrimSpace(options.Mode)
	if mode == "" {
		mode = service.DefaultMode()
	}
	limit := options.Limit
	if limit <= 0 {
		limit = 50
	}
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}

	return &consoleModel{
		ctx:             ctx,
		service:         service,
		mode:            mode,
		city:            strings.TrimSpace(options.City),
		statusFilter:    strings.TrimSpace(options.Status),
		limit:           limit,
		refreshInterval: interval,
		status:          "starting",
	}
}

func (m *consoleModel) Init() tea.Cmd {
	return tea.Batch(m.loadFacilitiesCmd(), m.tickCmd())
}

func (m *consoleModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadFacilitiesCmd(), m.tickCmd())
	case facilitiesLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.facilities = msg.items
		if len(m.facilities) == 0 {
			m.selectedIndex = 0
			m.hasDetail = false
			m.status = "no facilities"
			return m, nil
		}
		if m.selectedIndex < 0 {
			m.selectedIndex = 0
		}
		if m.selectedIndex >= len(m.facilities) {
			m.selectedIndex = len(m.facilities) - 1
		}
		m.status = fmt.Sprintf("refreshed, %d facilities", len(m.facilities))
		return m, m.loadSelectedDetailCmd()
	case detailLoadedMsg:
		if !m.isCurrentSelected(msg.facilityID) {
			return m, nil
		}
		if msg.err != nil {
			m.hasDetail = false
			m.status = "detail load failed: " + msg.err.Error()
			return m, nil
		}
		m.hasDetail = msg.hasDetail
		m.detail = msg.result
		if !msg.hasDetail {
			m.status = "no stored rating, press r to rate"
		}
		return m, nil
	case rateDoneMsg:
		if msg.err != nil {
			m.status = "rate failed: " + msg.err.Error()
			return m, nil
		}
		if m.isCurrentSelected(msg.facilityID) {
			m.detail = msg.result
			m.hasDetail = true
		}
		m.status = fmt.Sprintf("rated %s: %.1f stars", msg.facilityID, msg.result.OverallRating)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadFacilitiesCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.facilities)-1 {
				m.selectedIndex++
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "r":
			return m, m.rateSelectedCmd()
		case "m":
			m.toggleMode()
			return m, m.loadSelectedDetailCmd()
		}
	}
	return m, nil
}

func (m *consoleModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("CareScore Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"mode=%s city=%s status=%s limit=%d refresh=%s",
		m.mode,
		firstNonEmpty(m.city, "all"),
		firstNonEmpty(m.statusFilter, "all"),
		m.limit,
		m.refreshInterval,
	)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Facilities"))
	builder.WriteString("\n")
	if len(m.facilities) == 0 {
		builder.WriteString(dimStyle.Render("- no facilities"))
		builder.WriteString("\n\n")
	} else {
		for index, facility := range m.facilities {
			line := fmt.Sprintf("%s [%s] %s, %s cap=%d",
				facility.FacilityID,
				firstNonEmpty(facility.Status, "unknown"),
				facility.Name,
				firstNonEmpty(facility.City, "-"),
				facility.Capacity,
			)
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else {
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Rating"))
	builder.WriteString("\n")
	if !m.hasDetail {
		builder.WriteString(dimStyle.Render("- no stored rating"))
		builder.WriteString("\n\n")
	} else {
		builder.WriteString(fmt.Sprintf("Overall: %s %.1f (%s)\n", stars(m.detail.OverallRating), m.detail.OverallRating, m.detail.Mode))
		builder.WriteString(fmt.Sprintf("Violations: %d total, %d high risk, %d recent\n",
			m.detail.ViolationCount, m.detail.HighRiskViolationCount, m.detail.RecentViolationsCount))
		builder.WriteString(fmt.Sprintf("Subscores: safety %.1f ops %.1f edu %.1f staff %.1f\n",
			m.detail.SafetyComplianceScore,
			m.detail.OperationalQualityScore,
			m.detail.EducationalProgrammingScore,
			m.detail.StaffQualificationsScore,
		))

		builder.WriteString("\nFactors:\n")
		if len(m.detail.RatingFactors) == 0 {
			builder.WriteString("- none\n")
		} else {
			for _, factor := range headOf(m.detail.RatingFactors, maxShownFactors) {
				builder.WriteString("- " + factor + "\n")
			}
		}

		builder.WriteString("Strengths:\n")
		if len(m.detail.QualityIndicators) == 0 {
			builder.WriteString("- none\n")
		} else {
			for _, indicator := range headOf(m.detail.QualityIndicators, maxShownIndicators) {
				builder.WriteString("- " + indicator + "\n")
			}
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(dimStyle.Render("Keys: ↑/k ↓/j move  g refresh  r rate  m mode  q quit"))
	return builder.String()
}

func (m *consoleModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *consoleModel) loadFacilitiesCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.service.ListFacilities(m.ctx, ports.FacilityFilter{
			City:   m.city,
			Status: m.statusFilter,
			Limit:  m.limit,
		})
		if err != nil {
			return facilitiesLoadedMsg{err: err}
		}
		return facilitiesLoadedMsg{items: items}
	}
}

func (m *consoleModel) loadSelectedDetailCmd() tea.Cmd {
	facility, ok := m.selectedFacility()
	if !ok {
		return nil
	}
	mode := m.mode
	return func() tea.Msg {
		result, found, err := m.service.StoredRating(m.ctx, facility.FacilityID, mode)
		if err != nil {
			return detailLoadedMsg{facilityID: facility.FacilityID, err: err}
		}
		return detailLoadedMsg{
			facilityID: facility.FacilityID,
			result:     result,
			hasDetail:  found,
		}
	}
}

func (m *consoleModel) rateSelectedCmd() tea.Cmd {
	facility, ok := m.selectedFacility()
	if !ok {
		m.status = "no facility selected"
		return nil
	}
	mode := m.mode
	m.status = "rating " + facility.FacilityID + "..."
	return func() tea.Msg {
		result, err := m.service.RateFacility(m.ctx, ratinguc.RateFacilityInput{
			FacilityID: facility.FacilityID,
			Mode:       mode,
			Persist:    true,
		})
		if err != nil {
			return rateDoneMsg{facilityID: facility.FacilityID, err: err}
		}
		logging.Info(m.ctx, "console rated facility",
			slog.String("facility_id", facility.FacilityID),
			slog.String("mode", mode),
			slog.Float64("overall", result.OverallRating),
		)
		return rateDoneMsg{facilityID: facility.FacilityID, result: result}
	}
}

func (m *consoleModel) toggleMode() {
	if m.mode == ratinguc.ModeBalanced {
		m.mode = ratinguc.ModeStandard
	} else {
		m.mode = ratinguc.ModeBalanced
	}
	m.status = "mode: " + m.mode
}

func (m *consoleModel) selectedFacility() (ports.Facility, bool) {
	if len(m.facilities) == 0 {
		return ports.Facility{}, false
	}
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.facilities) {
		return ports.Facility{}, false
	}
	return m.facilities[m.selectedIndex], true
}

func (m *consoleModel) isCurrentSelected(facilityID string) bool {
	selected, ok := m.selectedFacility()
	if !ok {
		return false
	}
	return strings.TrimSpace(selected.FacilityID) == strings.TrimSpace(facilityID)
}

func stars(rating float64) string {
	full := int(rating)
	if full < 0 {
		full = 0
	}
	if full > 5 {
		full = 5
	}
	half := rating-float64(full) >= 0.5 && full < 5
	out := strings.Repeat("★", full)
	if half {
		out += "½"
	}
	return out
}

func headOf(values []string, limit int) []string {
	if len(values) <= limit {
		return values
	}
	return values[:limit]
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized != "" {
			return normalized
		}
	}
	return ""
}
